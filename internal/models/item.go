package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Item represents a stored article-like record.
type Item struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Source      ItemSource `json:"source" db:"source_name"`
	PublishedAt string     `json:"publishedAt" db:"published_at"`
	URL         string     `json:"url" db:"url"`
	Summary     string     `json:"summary" db:"summary"`
	Tags        StringList `json:"tags" db:"tags"`
}

// ItemSource identifies where an item came from.
type ItemSource struct {
	Name string `json:"name"`
}

// StringList stores an ordered list of strings as a JSON-encoded TEXT column.
// Order and duplicates are preserved exactly as given.
type StringList []string

// Value implements driver.Valuer for database storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("scan tags: unsupported type %T", value)
	}
}

// publishedAtMessage is the validation message for malformed timestamps.
const publishedAtMessage = "publishedAt must be a valid UTC datetime string (ISO 8601 format with Z, e.g., 2025-03-01T09:00:00Z)"

// ValidationError describes a rejected field in a write payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// validatePublishedAt enforces the "UTC with Z suffix" contract. Otherwise
// valid ISO 8601 strings using numeric offsets are rejected intentionally.
func validatePublishedAt(value string) error {
	if !strings.HasSuffix(value, "Z") {
		return NewValidationError("publishedAt", publishedAtMessage)
	}
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return NewValidationError("publishedAt", publishedAtMessage)
	}
	return nil
}

// ItemInput is the full payload for creating an item. The id is never
// client-settable and is assigned by the repository.
type ItemInput struct {
	Title       string      `json:"title"`
	Source      *ItemSource `json:"source"`
	PublishedAt string      `json:"publishedAt"`
	URL         string      `json:"url"`
	Summary     string      `json:"summary"`
	Tags        StringList  `json:"tags"`
}

// Validate checks the full create payload against the data-model rules.
func (in *ItemInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("title", "title is required and must be non-empty")
	}
	if in.Source == nil || strings.TrimSpace(in.Source.Name) == "" {
		return NewValidationError("source.name", "source.name is required and must be non-empty")
	}
	if err := validatePublishedAt(in.PublishedAt); err != nil {
		return err
	}
	if strings.TrimSpace(in.URL) == "" {
		return NewValidationError("url", "url is required and must be non-empty")
	}
	return nil
}

// ItemUpdate is a partial update payload. Each slot is applied only when
// non-nil, so a body touching only tags need not carry a publishedAt.
type ItemUpdate struct {
	Title       *string     `json:"title"`
	Source      *ItemSource `json:"source"`
	PublishedAt *string     `json:"publishedAt"`
	URL         *string     `json:"url"`
	Summary     *string     `json:"summary"`
	Tags        *StringList `json:"tags"`
}

// Validate applies the per-field rules to the fields actually present.
func (u *ItemUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return NewValidationError("title", "title must be non-empty")
	}
	if u.Source != nil && strings.TrimSpace(u.Source.Name) == "" {
		return NewValidationError("source.name", "source.name must be non-empty")
	}
	if u.PublishedAt != nil {
		if err := validatePublishedAt(*u.PublishedAt); err != nil {
			return err
		}
	}
	if u.URL != nil && strings.TrimSpace(*u.URL) == "" {
		return NewValidationError("url", "url must be non-empty")
	}
	return nil
}

// IsEmpty reports whether no updatable field is present.
func (u *ItemUpdate) IsEmpty() bool {
	return u.Title == nil && u.Source == nil && u.PublishedAt == nil &&
		u.URL == nil && u.Summary == nil && u.Tags == nil
}
