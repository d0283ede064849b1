package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/item-manager/internal/events"
	"github.com/campushub/item-manager/internal/logger"
	"github.com/campushub/item-manager/internal/models"
	"github.com/campushub/item-manager/internal/repository"
)

const (
	defaultLimit  = 10
	maxLimit      = 20
	defaultOffset = 0
)

type ItemHandler struct {
	repo      *repository.ItemRepository
	publisher *events.Publisher
	logger    logger.Logger
}

func NewItemHandler(repo *repository.ItemRepository, publisher *events.Publisher, log logger.Logger) *ItemHandler {
	return &ItemHandler{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// List handles GET /api/v1/items. Out-of-range limit or offset is rejected
// before the repository is touched.
func (h *ItemHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		respondError(c, http.StatusBadRequest, CodeValidationError,
			"limit must be an integer between 1 and 20")
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(defaultOffset)))
	if err != nil || offset < 0 {
		respondError(c, http.StatusBadRequest, CodeValidationError,
			"offset must be a non-negative integer")
		return
	}

	items, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list items",
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "INTERNAL", "Failed to list items")
		return
	}

	respondOK(c, http.StatusOK, items)
}

// GetByID handles GET /api/v1/items/:id.
func (h *ItemHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	item, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrItemNotFound) {
			h.logger.Error("Failed to get item",
				logger.String("item_id", id),
				logger.Error(err),
			)
		}
		respondError(c, http.StatusNotFound, CodeNotFound, "Item not found")
		return
	}

	respondOK(c, http.StatusOK, item)
}

// Create handles POST /api/v1/items. Any failure on this path, including a
// store error after validation, is reported as a validation error.
func (h *ItemHandler) Create(c *gin.Context) {
	var input models.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
		return
	}

	if err := input.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, validationMessage(err))
		return
	}

	item, err := h.repo.Create(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("Failed to create item",
			logger.String("title", input.Title),
			logger.Error(err),
		)
		respondError(c, http.StatusBadRequest, CodeValidationError, validationMessage(err))
		return
	}

	h.logger.Info("Item created",
		logger.String("item_id", item.ID),
		logger.String("title", item.Title),
	)
	h.publisher.PublishAsync(events.NewItemEvent(events.ItemCreated, item.ID, item))

	respondOK(c, http.StatusCreated, item)
}

// Update handles PATCH /api/v1/items/:id. The raw body is inspected for an
// id key before structural validation: id is immutable and rejected outright
// even when set to its current value.
func (h *ItemHandler) Update(c *gin.Context) {
	id := c.Param("id")

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
		return
	}

	update, err := decodeUpdate(body)
	if err != nil {
		h.logger.Debug("Invalid update body",
			logger.String("item_id", id),
			logger.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, CodeValidationError, validationMessage(err))
		return
	}

	if err := update.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, validationMessage(err))
		return
	}

	item, err := h.repo.Update(c.Request.Context(), id, update)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Item not found")
			return
		}
		h.logger.Error("Failed to update item",
			logger.String("item_id", id),
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "INTERNAL", "Failed to update item")
		return
	}

	h.logger.Info("Item updated",
		logger.String("item_id", id),
	)
	h.publisher.PublishAsync(events.NewItemEvent(events.ItemUpdated, id, item))

	respondOK(c, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/items/:id. Success is a bare 204, not the
// usual envelope.
func (h *ItemHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Item not found")
			return
		}
		h.logger.Error("Failed to delete item",
			logger.String("item_id", id),
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "INTERNAL", "Failed to delete item")
		return
	}

	h.logger.Info("Item deleted",
		logger.String("item_id", id),
	)
	h.publisher.PublishAsync(events.NewItemEvent(events.ItemDeleted, id, nil))

	c.Status(http.StatusNoContent)
}

// decodeUpdate parses a partial-update body. The body is decoded twice: once
// as a raw key map so an id key is caught regardless of its value, then into
// the typed partial structure. An empty body is a valid no-op update.
func decodeUpdate(body []byte) (*models.ItemUpdate, error) {
	if len(body) == 0 {
		return &models.ItemUpdate{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, models.NewValidationError("", "Invalid request body: "+err.Error())
	}

	if _, hasID := raw["id"]; hasID {
		return nil, models.NewValidationError("id", "id field cannot be updated")
	}

	var update models.ItemUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, models.NewValidationError("", "Invalid request body: "+err.Error())
	}

	return &update, nil
}
