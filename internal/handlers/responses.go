package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campushub/item-manager/internal/models"
)

// Error codes returned in the error envelope.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

// Envelope is the wrapper applied to every JSON response.
type Envelope struct {
	Status string        `json:"status"`
	Data   any           `json:"data,omitempty"`
	Error  *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload carries a machine-readable code and a human-readable message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(data any) Envelope {
	return Envelope{Status: "ok", Data: data}
}

func fail(code, message string) Envelope {
	return Envelope{
		Status: "error",
		Error:  &ErrorPayload{Code: code, Message: message},
	}
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, ok(data))
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, fail(code, message))
}

// validationMessage preserves the field-level message for validation errors
// and falls back to the raw error text for anything else. Store failures on
// the create path pass through here, so they surface as validation errors
// rather than server errors.
func validationMessage(err error) string {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return err.Error()
}
