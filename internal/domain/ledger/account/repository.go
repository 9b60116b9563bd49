package account

import (
	"context"

	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain"
)

// Repository defines operations for accounts.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Account], error)
	Exists(ctx context.Context, accountID id.ID) (bool, error)

	// NameIndex returns a case-insensitive, trimmed name -> id lookup table
	// for bulk import resolution.
	NameIndex(ctx context.Context) (map[string]id.ID, error)

	// ApplyDelta atomically adds a signed delta to the account balance with
	// a single UPDATE and returns the resulting balance. Must run inside an
	// open transaction; implementations refuse to run outside one. The row
	// lock taken by the UPDATE serializes concurrent writers on the same
	// account.
	//
	// Returns NOT_FOUND if the account does not exist. The non-negative
	// check on the result belongs to the mutator service, which rolls the
	// enclosing transaction back through its returned error.
	ApplyDelta(ctx context.Context, accountID id.ID, delta types.Money) (types.Money, error)
}
