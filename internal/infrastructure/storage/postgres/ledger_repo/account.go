// Package ledger_repo provides PostgreSQL implementations for the ledger
// repositories: accounts and movements.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain"
	"cajalibro/internal/domain/ledger/account"
	"cajalibro/internal/infrastructure/storage/postgres"
)

const accountsTable = "accounts"

// AccountRepo implements account.Repository.
type AccountRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewAccountRepo creates a new account repository.
func NewAccountRepo(txm *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[account.Account](),
	}
}

var _ account.Repository = (*AccountRepo)(nil)

func (r *AccountRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, acc *account.Account) error {
	data := postgres.StructToMap(acc)

	q := r.builder().
		Insert(accountsTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, accountsTable)
	}

	return nil
}

// GetByID retrieves an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, accountID id.ID) (*account.Account, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(accountsTable).
		Where(squirrel.Eq{"id": accountID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var acc account.Account
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &acc, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("account", accountID.String())
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &acc, nil
}

// List retrieves accounts with filtering.
func (r *AccountRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*account.Account], error) {
	result := domain.ListResult[*account.Account]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.selectCols...).
		From(accountsTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "name"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

// Exists checks account existence.
func (r *AccountRepo) Exists(ctx context.Context, accountID id.ID) (bool, error) {
	sql := "SELECT 1 FROM " + accountsTable + " WHERE id = $1 LIMIT 1"

	var exists int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, accountID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}

	return true, nil
}

// NameIndex returns the case-insensitive, trimmed name -> id lookup table.
func (r *AccountRepo) NameIndex(ctx context.Context) (map[string]id.ID, error) {
	rows, err := r.txm.GetQuerier(ctx).Query(ctx, "SELECT id, name FROM "+accountsTable)
	if err != nil {
		return nil, fmt.Errorf("name index: %w", err)
	}
	defer rows.Close()

	index := make(map[string]id.ID)
	for rows.Next() {
		var accountID id.ID
		var name string
		if err := rows.Scan(&accountID, &name); err != nil {
			return nil, fmt.Errorf("scan name index: %w", err)
		}
		index[strings.ToLower(strings.TrimSpace(name))] = accountID
	}

	return index, rows.Err()
}

// ApplyDelta adds a signed delta to the balance with a single UPDATE and
// returns the resulting balance. The UPDATE takes the row lock, so
// concurrent deltas on the same account serialize here. Refuses to run
// outside an open transaction: a delta that cannot be rolled back with its
// movement would break the balance invariant.
func (r *AccountRepo) ApplyDelta(ctx context.Context, accountID id.ID, delta types.Money) (types.Money, error) {
	if !r.txm.InTransaction(ctx) {
		return types.Zero(), apperror.NewInternal(fmt.Errorf("ApplyDelta called outside a transaction"))
	}

	sql := "UPDATE " + accountsTable + " SET balance = balance + $1, updated_at = NOW() WHERE id = $2 RETURNING balance"

	var newBalance types.Money
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, delta, accountID).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Zero(), apperror.NewNotFound("account", accountID.String())
	}
	if err != nil {
		return types.Zero(), fmt.Errorf("apply delta: %w", err)
	}

	return newBalance, nil
}
