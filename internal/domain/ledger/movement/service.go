package movement

import (
	"context"
	"fmt"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/tx"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain"
	"cajalibro/pkg/logger"
)

// BalanceMutator applies signed deltas to account balances inside the
// active transaction. Implemented by the account service.
type BalanceMutator interface {
	ApplyDelta(ctx context.Context, accountID id.ID, delta types.Money) (types.Money, error)
	Exists(ctx context.Context, accountID id.ID) (bool, error)
}

// ReferenceChecker verifies existence of a referenced catalog record
// (category, provider, cashier).
type ReferenceChecker interface {
	Exists(ctx context.Context, refID id.ID) (bool, error)
}

// Service is the movement lifecycle manager. It validates payloads per
// kind, computes balance deltas relative to stored state, and keeps every
// multi-step mutation inside one transaction.
type Service struct {
	repo       Repository
	accounts   BalanceMutator
	categories ReferenceChecker
	providers  ReferenceChecker
	cashiers   ReferenceChecker
	txManager  tx.Manager
}

// NewService creates a new movement service.
func NewService(
	repo Repository,
	accounts BalanceMutator,
	categories ReferenceChecker,
	providers ReferenceChecker,
	cashiers ReferenceChecker,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		accounts:   accounts,
		categories: categories,
		providers:  providers,
		cashiers:   cashiers,
		txManager:  txManager,
	}
}

// --- Reference validation ---

func (s *Service) checkAccount(ctx context.Context, accountID id.ID) error {
	ok, err := s.accounts.Exists(ctx, accountID)
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("account", accountID.String())
	}
	return nil
}

// checkProvider accepts a reference from either the provider or the
// cashier catalog: commission expenses record the cashier as provider.
func (s *Service) checkProvider(ctx context.Context, refID *id.ID) error {
	if refID == nil || id.IsNil(*refID) {
		return nil
	}
	ok, err := s.providers.Exists(ctx, *refID)
	if err != nil {
		return fmt.Errorf("check provider: %w", err)
	}
	if !ok {
		if ok, err = s.cashiers.Exists(ctx, *refID); err != nil {
			return fmt.Errorf("check provider: %w", err)
		}
	}
	if !ok {
		return apperror.NewNotFound("provider", refID.String())
	}
	return nil
}

func (s *Service) checkRef(ctx context.Context, checker ReferenceChecker, entity string, refID *id.ID) error {
	if refID == nil || id.IsNil(*refID) {
		return nil
	}
	ok, err := checker.Exists(ctx, *refID)
	if err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if !ok {
		return apperror.NewNotFound(entity, refID.String())
	}
	return nil
}

// --- Income ---

// CreateIncome validates the income, applies +amount to its account and
// inserts the row, all in one transaction. After a successful commit the
// commission cascade may fire as an independent operation; its failure
// never reverses the income.
func (s *Service) CreateIncome(ctx context.Context, m *Income) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkAccount(ctx, m.AccountID); err != nil {
			return err
		}
		if err := s.checkRef(ctx, s.categories, "category", m.CategoryID); err != nil {
			return err
		}
		if err := s.checkRef(ctx, s.cashiers, "cashier", m.CashierID); err != nil {
			return err
		}

		if _, err := s.accounts.ApplyDelta(ctx, m.AccountID, m.BalanceEffect()); err != nil {
			return err
		}

		if err := s.repo.CreateIncome(ctx, m); err != nil {
			return fmt.Errorf("create income: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "income created",
		"id", m.ID,
		"account_id", m.AccountID,
		"amount", m.Amount.String(),
		"type", m.Type,
	)

	s.runCommissionCascade(ctx, m)

	return nil
}

// GetIncome retrieves an income by id.
func (s *Service) GetIncome(ctx context.Context, movementID id.ID) (*Income, error) {
	return s.repo.GetIncome(ctx, movementID)
}

// ListIncomes retrieves incomes with filtering.
func (s *Service) ListIncomes(ctx context.Context, filter ListFilter) (domain.ListResult[*Income], error) {
	return s.repo.ListIncomes(ctx, filter)
}

// UpdateIncome recomputes the balance delta against the stored state.
// Account unchanged: one delta of new_effect - old_effect. Account changed:
// reverse the old effect on the old account and apply the new effect on the
// new one, both in the same transaction. The row is written before the
// deltas so the non-negative check is the final statement before commit.
func (s *Service) UpdateIncome(ctx context.Context, m *Income) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetIncome(ctx, m.ID)
		if err != nil {
			return err
		}

		if err := s.checkAccount(ctx, m.AccountID); err != nil {
			return err
		}
		if err := s.checkRef(ctx, s.categories, "category", m.CategoryID); err != nil {
			return err
		}
		if err := s.checkRef(ctx, s.cashiers, "cashier", m.CashierID); err != nil {
			return err
		}

		m.CreatedAt = old.CreatedAt
		m.Touch()
		if err := s.repo.UpdateIncome(ctx, m); err != nil {
			return fmt.Errorf("update income: %w", err)
		}

		return s.applyUpdateDeltas(ctx,
			old.AccountID, old.BalanceEffect(),
			m.AccountID, m.BalanceEffect(),
		)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "income updated", "id", m.ID, "amount", m.Amount.String())
	return nil
}

// DeleteIncome reverses the income's effect and removes the row. An
// inactive income is removed without a reversal; a reversal that would
// drive the account negative aborts the delete and the movement remains.
func (s *Service) DeleteIncome(ctx context.Context, movementID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetIncome(ctx, movementID)
		if err != nil {
			return err
		}

		if effect := old.BalanceEffect(); !effect.IsZero() {
			if _, err := s.accounts.ApplyDelta(ctx, old.AccountID, effect.Neg()); err != nil {
				return err
			}
		}

		return s.repo.DeleteIncome(ctx, movementID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "income deleted", "id", movementID)
	return nil
}

// --- Expense ---

// CreateExpense validates the expense, debits total_net from its account
// and inserts the row with its line items, all in one transaction. A
// failing line-item insert rolls back the movement and the balance change
// together.
func (s *Service) CreateExpense(ctx context.Context, m *Expense) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkAccount(ctx, m.AccountID); err != nil {
			return err
		}
		if err := s.checkRef(ctx, s.categories, "category", m.CategoryID); err != nil {
			return err
		}
		if err := s.checkProvider(ctx, m.ProviderID); err != nil {
			return err
		}

		if _, err := s.accounts.ApplyDelta(ctx, m.AccountID, m.BalanceEffect()); err != nil {
			return err
		}

		if err := s.repo.CreateExpense(ctx, m); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		if err := s.repo.ReconcileItems(ctx, m.ID, m.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "expense created",
		"id", m.ID,
		"account_id", m.AccountID,
		"total_net", m.TotalNet.String(),
	)
	return nil
}

// GetExpense retrieves an expense with its items.
func (s *Service) GetExpense(ctx context.Context, movementID id.ID) (*Expense, error) {
	m, err := s.repo.GetExpense(ctx, movementID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, movementID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	m.Items = items

	return m, nil
}

// ListExpenses retrieves expenses with filtering.
func (s *Service) ListExpenses(ctx context.Context, filter ListFilter) (domain.ListResult[*Expense], error) {
	return s.repo.ListExpenses(ctx, filter)
}

// UpdateExpense recomputes the balance delta against the stored state and
// reconciles line items by identity: matching ids update in place, id-less
// items insert, absent items delete last. The balance delta is the final
// statement before commit.
func (s *Service) UpdateExpense(ctx context.Context, m *Expense) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetExpense(ctx, m.ID)
		if err != nil {
			return err
		}

		if err := s.checkAccount(ctx, m.AccountID); err != nil {
			return err
		}
		if err := s.checkRef(ctx, s.categories, "category", m.CategoryID); err != nil {
			return err
		}
		if err := s.checkProvider(ctx, m.ProviderID); err != nil {
			return err
		}

		m.CreatedAt = old.CreatedAt
		m.Touch()
		if err := s.repo.UpdateExpense(ctx, m); err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		if err := s.repo.ReconcileItems(ctx, m.ID, m.Items); err != nil {
			return fmt.Errorf("reconcile items: %w", err)
		}

		return s.applyUpdateDeltas(ctx,
			old.AccountID, old.BalanceEffect(),
			m.AccountID, m.BalanceEffect(),
		)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "expense updated", "id", m.ID, "total_net", m.TotalNet.String())
	return nil
}

// DeleteExpense reverses the expense's effect, deletes its line items and
// then the row. An inactive expense is removed without a reversal.
func (s *Service) DeleteExpense(ctx context.Context, movementID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetExpense(ctx, movementID)
		if err != nil {
			return err
		}

		if effect := old.BalanceEffect(); !effect.IsZero() {
			if _, err := s.accounts.ApplyDelta(ctx, old.AccountID, effect.Neg()); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteItems(ctx, movementID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return s.repo.DeleteExpense(ctx, movementID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "expense deleted", "id", movementID)
	return nil
}

// --- Transfer ---

// CreateTransfer debits the source account and credits the destination in
// one transaction, then inserts the row. If the credit leg fails (say the
// destination does not exist) the rollback discards the debit, so no
// partial transfer is ever persisted.
func (s *Service) CreateTransfer(ctx context.Context, m *Transfer) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkAccount(ctx, m.FromAccountID); err != nil {
			return err
		}
		if err := s.checkAccount(ctx, m.ToAccountID); err != nil {
			return err
		}

		fromDelta, toDelta := m.LegEffects()
		if _, err := s.accounts.ApplyDelta(ctx, m.FromAccountID, fromDelta); err != nil {
			return err
		}
		if _, err := s.accounts.ApplyDelta(ctx, m.ToAccountID, toDelta); err != nil {
			return err
		}

		if err := s.repo.CreateTransfer(ctx, m); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transfer created",
		"id", m.ID,
		"from", m.FromAccountID,
		"to", m.ToAccountID,
		"amount", m.Amount.String(),
	)
	return nil
}

// GetTransfer retrieves a transfer by id.
func (s *Service) GetTransfer(ctx context.Context, movementID id.ID) (*Transfer, error) {
	return s.repo.GetTransfer(ctx, movementID)
}

// ListTransfers retrieves transfers with filtering.
func (s *Service) ListTransfers(ctx context.Context, filter ListFilter) (domain.ListResult[*Transfer], error) {
	return s.repo.ListTransfers(ctx, filter)
}

// UpdateTransfer reverses both old legs and applies both new legs inside
// one transaction. Legs that did not change still cancel out exactly.
func (s *Service) UpdateTransfer(ctx context.Context, m *Transfer) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetTransfer(ctx, m.ID)
		if err != nil {
			return err
		}

		if err := s.checkAccount(ctx, m.FromAccountID); err != nil {
			return err
		}
		if err := s.checkAccount(ctx, m.ToAccountID); err != nil {
			return err
		}

		m.CreatedAt = old.CreatedAt
		m.Touch()
		if err := s.repo.UpdateTransfer(ctx, m); err != nil {
			return fmt.Errorf("update transfer: %w", err)
		}

		oldFrom, oldTo := old.LegEffects()
		newFrom, newTo := m.LegEffects()

		if err := s.applyUpdateDeltas(ctx, old.FromAccountID, oldFrom, m.FromAccountID, newFrom); err != nil {
			return err
		}
		return s.applyUpdateDeltas(ctx, old.ToAccountID, oldTo, m.ToAccountID, newTo)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transfer updated", "id", m.ID, "amount", m.Amount.String())
	return nil
}

// DeleteTransfer reverses both legs and removes the row. An inactive
// transfer is removed without reversals.
func (s *Service) DeleteTransfer(ctx context.Context, movementID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetTransfer(ctx, movementID)
		if err != nil {
			return err
		}

		fromDelta, toDelta := old.LegEffects()
		if !fromDelta.IsZero() {
			if _, err := s.accounts.ApplyDelta(ctx, old.FromAccountID, fromDelta.Neg()); err != nil {
				return err
			}
		}
		if !toDelta.IsZero() {
			if _, err := s.accounts.ApplyDelta(ctx, old.ToAccountID, toDelta.Neg()); err != nil {
				return err
			}
		}

		return s.repo.DeleteTransfer(ctx, movementID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transfer deleted", "id", movementID)
	return nil
}

// applyUpdateDeltas applies the balance consequence of moving an effect
// from (oldAccount, oldEffect) to (newAccount, newEffect). Same account:
// a single delta of the difference. Account changed: full reversal on the
// old account, full application on the new one, sequentially in the same
// transaction.
func (s *Service) applyUpdateDeltas(ctx context.Context, oldAccount id.ID, oldEffect types.Money, newAccount id.ID, newEffect types.Money) error {
	if oldAccount == newAccount {
		delta := newEffect.Sub(oldEffect)
		if delta.IsZero() {
			return nil
		}
		_, err := s.accounts.ApplyDelta(ctx, oldAccount, delta)
		return err
	}

	if !oldEffect.IsZero() {
		if _, err := s.accounts.ApplyDelta(ctx, oldAccount, oldEffect.Neg()); err != nil {
			return err
		}
	}
	if !newEffect.IsZero() {
		if _, err := s.accounts.ApplyDelta(ctx, newAccount, newEffect); err != nil {
			return err
		}
	}
	return nil
}
