package account

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

// Service provides account operations and the balance mutator.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new account service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create creates a new account.
func (s *Service) Create(ctx context.Context, acc *Account) error {
	if err := acc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, acc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "account created", "id", acc.ID, "name", acc.Name)
	return nil
}

// GetByID retrieves an account.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// List retrieves accounts with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Account], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks account existence, used by movement validation.
func (s *Service) Exists(ctx context.Context, accountID id.ID) (bool, error) {
	return s.repo.Exists(ctx, accountID)
}

// NameIndex returns the case-insensitive name lookup table for import
// resolution.
func (s *Service) NameIndex(ctx context.Context) (map[string]id.ID, error) {
	return s.repo.NameIndex(ctx)
}

// ApplyDelta applies a signed balance delta inside the caller's open
// transaction and enforces the non-negative invariant: a debit whose result
// would be negative returns INSUFFICIENT_BALANCE, which rolls the enclosing
// transaction back. The delta is never partially applied; a transfer's
// debit+credit pair or an update's reverse-then-reapply are two sequential
// calls inside the same transaction, so a failing second call discards the
// first.
func (s *Service) ApplyDelta(ctx context.Context, accountID id.ID, delta types.Money) (types.Money, error) {
	if delta.IsZero() {
		// No-op deltas happen on updates that change nothing
		acc, err := s.repo.GetByID(ctx, accountID)
		if err != nil {
			return types.Zero(), err
		}
		return acc.Balance, nil
	}

	newBalance, err := s.repo.ApplyDelta(ctx, accountID, delta)
	if err != nil {
		return types.Zero(), fmt.Errorf("apply delta: %w", err)
	}

	if newBalance.IsNegative() {
		return types.Zero(), apperror.NewInsufficientBalance(
			accountID.String(),
			newBalance.Sub(delta).String(),
			delta.String(),
		)
	}

	logger.Debug(ctx, "balance delta applied",
		"account_id", accountID,
		"delta", delta.String(),
		"balance", newBalance.String(),
	)

	return newBalance, nil
}
