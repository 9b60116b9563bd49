// Package entity provides base types shared by catalogs and movements.
package entity

import (
	"context"
	"time"

	"cajalibro/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains the fields every stored entity carries.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Audit timestamps
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a new BaseEntity with generated ID and timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// BaseCatalog is the base for reference-data entities (categories,
// providers, cashiers). Catalogs are plain name records; the ledger engine
// only needs their existence and their name for import resolution.
type BaseCatalog struct {
	BaseEntity

	Name string `db:"name" json:"name"`
}

// NewBaseCatalog creates a new BaseCatalog with generated ID.
func NewBaseCatalog(name string) BaseCatalog {
	return BaseCatalog{
		BaseEntity: NewBaseEntity(),
		Name:       name,
	}
}
