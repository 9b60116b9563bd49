// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"cajalibro/internal/core/entity"
	"cajalibro/internal/core/id"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring search on searchable fields
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// OrderBy specifies sorting (e.g., "name", "date DESC")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for catalog entities
// (categories, providers, cashiers).
type CatalogRepository[T entity.Validatable] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByName retrieves entity by exact name
	GetByName(ctx context.Context, name string) (T, error)

	// Update modifies existing entity
	Update(ctx context.Context, entity T) error

	// Delete performs physical removal. Foreign-key violations surface as
	// a conflict error (the record is referenced by movements).
	Delete(ctx context.Context, id id.ID) error

	// List retrieves entities with filtering and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// Exists checks if entity with given ID exists
	Exists(ctx context.Context, id id.ID) (bool, error)

	// NameIndex returns a case-insensitive, trimmed name -> id lookup
	// table. The bulk import reconciler builds one per catalog at the
	// start of each batch.
	NameIndex(ctx context.Context) (map[string]id.ID, error)
}
