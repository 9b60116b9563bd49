// Package account provides the Account entity and the balance mutator.
package account

import (
	"context"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/entity"
	"cajalibro/internal/core/types"
)

// Account holds a cached balance. The balance is a mutable aggregate kept
// consistent with the sum of committed active movement effects; it is never
// recomputed from history on read.
type Account struct {
	entity.BaseEntity

	Name    string      `db:"name" json:"name"`
	Balance types.Money `db:"balance" json:"balance"`
}

// New creates an account with generated ID and the given opening balance.
func New(name string, balance types.Money) *Account {
	return &Account{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Balance:    balance,
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if a.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if a.Balance.IsNegative() {
		return apperror.NewValidation("balance cannot be negative").
			WithDetail("field", "balance").
			WithDetail("value", a.Balance.String())
	}
	return nil
}

var _ entity.Validatable = (*Account)(nil)
