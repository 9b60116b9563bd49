// Package cashier provides the cashier catalog (people who perform arqueos).
package cashier

import (
	"context"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/entity"
)

// Cashier is the person who performed a cash-count arqueo. Their
// commission cascades into a derived expense that names them as provider.
type Cashier struct {
	entity.BaseCatalog

	Document *string `db:"document" json:"document,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
}

// New creates a new Cashier.
func New(name string) *Cashier {
	return &Cashier{
		BaseCatalog: entity.NewBaseCatalog(name),
	}
}

// Validate implements entity.Validatable.
func (c *Cashier) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*Cashier)(nil)
