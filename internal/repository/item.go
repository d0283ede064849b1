package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/item-manager/internal/logger"
	"github.com/campushub/item-manager/internal/models"
)

// ErrItemNotFound is returned when an operation targets a nonexistent id.
var ErrItemNotFound = errors.New("item not found")

const itemColumns = "id, title, source_name, published_at, url, summary, tags"

type ItemRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewItemRepository(db *sql.DB, log logger.Logger) *ItemRepository {
	return &ItemRepository{
		db:     db,
		logger: log,
	}
}

// InitSchema creates the items table if it does not exist. Safe to call on
// every startup.
func (r *ItemRepository) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source_name TEXT NOT NULL,
			published_at TEXT NOT NULL,
			url TEXT NOT NULL,
			summary TEXT NOT NULL,
			tags TEXT NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

// Count returns the number of stored items.
func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// SeedIfEmpty inserts the given records when the table has zero rows,
// generating a fresh id for each. No-op when the table is non-empty.
func (r *ItemRepository) SeedIfEmpty(ctx context.Context, inputs []models.ItemInput) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for i := range inputs {
		if _, createErr := r.Create(ctx, &inputs[i]); createErr != nil {
			return inserted, fmt.Errorf("seed item %d: %w", i, createErr)
		}
		inserted++
	}

	r.logger.Info("Seeded empty store",
		logger.Int("items", inserted),
	)
	return inserted, nil
}

// Create assigns a fresh id and inserts a new row.
func (r *ItemRepository) Create(ctx context.Context, input *models.ItemInput) (*models.Item, error) {
	item := &models.Item{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Source:      *input.Source,
		PublishedAt: input.PublishedAt,
		URL:         input.URL,
		Summary:     input.Summary,
		Tags:        input.Tags,
	}
	if item.Tags == nil {
		item.Tags = models.StringList{}
	}

	query := `
		INSERT INTO items (id, title, source_name, published_at, url, summary, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx,
		query,
		item.ID,
		item.Title,
		item.Source.Name,
		item.PublishedAt,
		item.URL,
		item.Summary,
		item.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	return item, nil
}

// GetByID returns the matching item or ErrItemNotFound.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	item, err := scanItemRow(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// List returns items ordered by published_at descending. The stored values
// are same-format UTC strings, so lexicographic ordering is chronological.
// Callers range-check limit and offset before reaching this layer.
func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		ORDER BY published_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		item, scanErr := scanItemRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, *item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate items: %w", rowsErr)
	}
	return items, nil
}

// Update applies only the fields present in the partial set, then returns
// the row's full current state. An empty field set skips the UPDATE and
// returns the unchanged row.
func (r *ItemRepository) Update(ctx context.Context, id string, update *models.ItemUpdate) (*models.Item, error) {
	setClauses, args := buildUpdateSet(update)

	if len(setClauses) > 0 {
		args = append(args, id)
		// setClauses holds fixed column assignments only
		query := `UPDATE items SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update item: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("get rows affected: %w", err)
		}
		if affected == 0 {
			return nil, ErrItemNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes the row or returns ErrItemNotFound.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func buildUpdateSet(update *models.ItemUpdate) (clauses []string, args []any) {
	if update.Title != nil {
		clauses = append(clauses, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Source != nil {
		clauses = append(clauses, "source_name = ?")
		args = append(args, update.Source.Name)
	}
	if update.PublishedAt != nil {
		clauses = append(clauses, "published_at = ?")
		args = append(args, *update.PublishedAt)
	}
	if update.URL != nil {
		clauses = append(clauses, "url = ?")
		args = append(args, *update.URL)
	}
	if update.Summary != nil {
		clauses = append(clauses, "summary = ?")
		args = append(args, *update.Summary)
	}
	if update.Tags != nil {
		clauses = append(clauses, "tags = ?")
		args = append(args, *update.Tags)
	}
	return clauses, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItemRow(row rowScanner) (*models.Item, error) {
	var item models.Item
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Source.Name,
		&item.PublishedAt,
		&item.URL,
		&item.Summary,
		&item.Tags,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}
