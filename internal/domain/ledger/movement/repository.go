package movement

import (
	"context"
	"time"

	"cajalibro/internal/core/id"
	"cajalibro/internal/domain"
)

// Repository defines storage operations for movements.
// All mutating methods are expected to run inside a transaction opened by
// the service; the balance deltas that accompany them live in the same
// transaction through the account repository.
type Repository interface {
	// Income
	CreateIncome(ctx context.Context, m *Income) error
	GetIncome(ctx context.Context, movementID id.ID) (*Income, error)
	UpdateIncome(ctx context.Context, m *Income) error
	DeleteIncome(ctx context.Context, movementID id.ID) error
	ListIncomes(ctx context.Context, filter ListFilter) (domain.ListResult[*Income], error)

	// Expense
	CreateExpense(ctx context.Context, m *Expense) error
	GetExpense(ctx context.Context, movementID id.ID) (*Expense, error)
	UpdateExpense(ctx context.Context, m *Expense) error
	DeleteExpense(ctx context.Context, movementID id.ID) error
	ListExpenses(ctx context.Context, filter ListFilter) (domain.ListResult[*Expense], error)

	// Expense items. ReconcileItems diffs desired against stored by item
	// id: updates matches, inserts items without an id, then deletes the
	// ones absent from desired. Insert/update run before delete so a
	// constraint violation aborts before anything is removed.
	GetItems(ctx context.Context, expenseID id.ID) ([]ExpenseItem, error)
	ReconcileItems(ctx context.Context, expenseID id.ID, desired []ExpenseItem) error
	DeleteItems(ctx context.Context, expenseID id.ID) error

	// Transfer
	CreateTransfer(ctx context.Context, m *Transfer) error
	GetTransfer(ctx context.Context, movementID id.ID) (*Transfer, error)
	UpdateTransfer(ctx context.Context, m *Transfer) error
	DeleteTransfer(ctx context.Context, movementID id.ID) error
	ListTransfers(ctx context.Context, filter ListFilter) (domain.ListResult[*Transfer], error)

	// Vouchers. GetVouchers resolves which movement table owns the id and
	// returns its kind alongside the current collection; SetVouchers
	// writes the new collection back as one atomic update.
	GetVouchers(ctx context.Context, movementID id.ID) (Kind, []string, error)
	SetVouchers(ctx context.Context, kind Kind, movementID id.ID, vouchers []string) error
}

// ListFilter for filtering movements.
type ListFilter struct {
	domain.ListFilter

	AccountID *id.ID
	Estado    *string
	DateFrom  *time.Time
	DateTo    *time.Time
}
