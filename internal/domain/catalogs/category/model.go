// Package category provides the movement category catalog.
package category

import (
	"context"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/entity"
)

// Category classifies incomes, expenses and expense line items.
type Category struct {
	entity.BaseCatalog

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// New creates a new Category.
func New(name string) *Category {
	return &Category{
		BaseCatalog: entity.NewBaseCatalog(name),
	}
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*Category)(nil)
