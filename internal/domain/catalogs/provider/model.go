// Package provider provides the provider catalog (expense suppliers).
package provider

import (
	"context"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/entity"
)

// Provider is a supplier an expense can reference. The commission cascade
// also records the cashier as the provider of the derived expense.
type Provider struct {
	entity.BaseCatalog

	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
}

// New creates a new Provider.
func New(name string) *Provider {
	return &Provider{
		BaseCatalog: entity.NewBaseCatalog(name),
	}
}

// Validate implements entity.Validatable.
func (p *Provider) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*Provider)(nil)
