package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/domain"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/internal/infrastructure/storage/postgres"
)

const (
	incomesTable      = "incomes"
	expensesTable     = "expenses"
	expenseItemsTable = "expense_items"
	transfersTable    = "transfers"
)

// MovementRepo implements movement.Repository on top of the three movement
// tables plus the expense_items table part.
type MovementRepo struct {
	txm *postgres.TxManager

	incomeCols   []string
	expenseCols  []string
	itemCols     []string
	transferCols []string
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:          txm,
		incomeCols:   postgres.ExtractDBColumns[movement.Income](),
		expenseCols:  postgres.ExtractDBColumns[movement.Expense](),
		itemCols:     postgres.ExtractDBColumns[movement.ExpenseItem](),
		transferCols: postgres.ExtractDBColumns[movement.Transfer](),
	}
}

var _ movement.Repository = (*MovementRepo)(nil)

func (r *MovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *MovementRepo) insert(ctx context.Context, table string, data map[string]any) error {
	sql, args, err := r.builder().Insert(table).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, table)
	}
	return nil
}

// update rewrites a movement row. id and created_at are immutable.
func (r *MovementRepo) update(ctx context.Context, table, entityName string, movementID id.ID, data map[string]any) error {
	delete(data, "id")
	delete(data, "created_at")

	q := r.builder().
		Update(table).
		SetMap(data).
		Where(squirrel.Eq{"id": movementID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, table)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(entityName, movementID.String())
	}
	return nil
}

func (r *MovementRepo) delete(ctx context.Context, table, entityName string, movementID id.ID) error {
	sql, args, err := r.builder().
		Delete(table).
		Where(squirrel.Eq{"id": movementID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, table)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(entityName, movementID.String())
	}
	return nil
}

// applyFilter adds the shared movement filters. accountCols names the
// column(s) the account filter matches against; transfers match either leg.
func applyFilter(q squirrel.SelectBuilder, filter movement.ListFilter, accountCols ...string) squirrel.SelectBuilder {
	if filter.AccountID != nil {
		or := make(squirrel.Or, 0, len(accountCols))
		for _, col := range accountCols {
			or = append(or, squirrel.Eq{col: *filter.AccountID})
		}
		q = q.Where(or)
	}
	if filter.Estado != nil {
		q = q.Where(squirrel.Eq{"estado": *filter.Estado})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"description": "%" + filter.Search + "%"})
	}
	return q
}

// list runs the count + page queries for one movement table.
func list[T any](ctx context.Context, r *MovementRepo, table string, cols []string, filter movement.ListFilter, accountCols ...string) (domain.ListResult[*T], error) {
	result := domain.ListResult[*T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := applyFilter(r.builder().Select(cols...).From(table), filter, accountCols...)

	countSQL, countArgs, err := r.builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC, created_at DESC"
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

func get[T any](ctx context.Context, r *MovementRepo, table, entityName string, cols []string, movementID id.ID) (*T, error) {
	sql, args, err := r.builder().
		Select(cols...).
		From(table).
		Where(squirrel.Eq{"id": movementID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m T
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound(entityName, movementID.String())
		}
		return nil, fmt.Errorf("get %s: %w", entityName, err)
	}

	return &m, nil
}

// Income

func (r *MovementRepo) CreateIncome(ctx context.Context, m *movement.Income) error {
	return r.insert(ctx, incomesTable, postgres.StructToMap(m))
}

func (r *MovementRepo) GetIncome(ctx context.Context, movementID id.ID) (*movement.Income, error) {
	return get[movement.Income](ctx, r, incomesTable, "income", r.incomeCols, movementID)
}

func (r *MovementRepo) UpdateIncome(ctx context.Context, m *movement.Income) error {
	return r.update(ctx, incomesTable, "income", m.ID, postgres.StructToMap(m))
}

func (r *MovementRepo) DeleteIncome(ctx context.Context, movementID id.ID) error {
	return r.delete(ctx, incomesTable, "income", movementID)
}

func (r *MovementRepo) ListIncomes(ctx context.Context, filter movement.ListFilter) (domain.ListResult[*movement.Income], error) {
	return list[movement.Income](ctx, r, incomesTable, r.incomeCols, filter, "account_id")
}

// Expense

func (r *MovementRepo) CreateExpense(ctx context.Context, m *movement.Expense) error {
	return r.insert(ctx, expensesTable, postgres.StructToMap(m))
}

func (r *MovementRepo) GetExpense(ctx context.Context, movementID id.ID) (*movement.Expense, error) {
	return get[movement.Expense](ctx, r, expensesTable, "expense", r.expenseCols, movementID)
}

func (r *MovementRepo) UpdateExpense(ctx context.Context, m *movement.Expense) error {
	return r.update(ctx, expensesTable, "expense", m.ID, postgres.StructToMap(m))
}

func (r *MovementRepo) DeleteExpense(ctx context.Context, movementID id.ID) error {
	return r.delete(ctx, expensesTable, "expense", movementID)
}

func (r *MovementRepo) ListExpenses(ctx context.Context, filter movement.ListFilter) (domain.ListResult[*movement.Expense], error) {
	return list[movement.Expense](ctx, r, expensesTable, r.expenseCols, filter, "account_id")
}

// Expense items

func (r *MovementRepo) GetItems(ctx context.Context, expenseID id.ID) ([]movement.ExpenseItem, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(expenseItemsTable).
		Where(squirrel.Eq{"expense_id": expenseID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]movement.ExpenseItem, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get expense items: %w", err)
	}

	return items, nil
}

// ReconcileItems diffs desired against stored by item id. Updates and
// inserts run first, stale rows are deleted last.
func (r *MovementRepo) ReconcileItems(ctx context.Context, expenseID id.ID, desired []movement.ExpenseItem) error {
	stored, err := r.GetItems(ctx, expenseID)
	if err != nil {
		return err
	}

	existing := make(map[id.ID]struct{}, len(stored))
	for _, item := range stored {
		existing[item.ItemID] = struct{}{}
	}

	keep := make(map[id.ID]struct{}, len(desired))
	for _, item := range desired {
		data := postgres.StructToMap(&item)
		data["expense_id"] = expenseID

		if _, found := existing[item.ItemID]; found {
			keep[item.ItemID] = struct{}{}
			delete(data, "item_id")

			q := r.builder().
				Update(expenseItemsTable).
				SetMap(data).
				Where(squirrel.Eq{"expense_id": expenseID, "item_id": item.ItemID})

			sql, args, err := q.ToSql()
			if err != nil {
				return fmt.Errorf("build item update: %w", err)
			}
			if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
				return postgres.TranslateError(err, expenseItemsTable)
			}
			continue
		}

		if id.IsNil(item.ItemID) {
			itemID := id.New()
			data["item_id"] = itemID
			keep[itemID] = struct{}{}
		} else {
			keep[item.ItemID] = struct{}{}
		}
		if err := r.insert(ctx, expenseItemsTable, data); err != nil {
			return err
		}
	}

	for _, item := range stored {
		if _, found := keep[item.ItemID]; found {
			continue
		}
		sql, args, err := r.builder().
			Delete(expenseItemsTable).
			Where(squirrel.Eq{"expense_id": expenseID, "item_id": item.ItemID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build item delete: %w", err)
		}
		if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return postgres.TranslateError(err, expenseItemsTable)
		}
	}

	return nil
}

func (r *MovementRepo) DeleteItems(ctx context.Context, expenseID id.ID) error {
	sql, args, err := r.builder().
		Delete(expenseItemsTable).
		Where(squirrel.Eq{"expense_id": expenseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, expenseItemsTable)
	}
	return nil
}

// Transfer

func (r *MovementRepo) CreateTransfer(ctx context.Context, m *movement.Transfer) error {
	return r.insert(ctx, transfersTable, postgres.StructToMap(m))
}

func (r *MovementRepo) GetTransfer(ctx context.Context, movementID id.ID) (*movement.Transfer, error) {
	return get[movement.Transfer](ctx, r, transfersTable, "transfer", r.transferCols, movementID)
}

func (r *MovementRepo) UpdateTransfer(ctx context.Context, m *movement.Transfer) error {
	return r.update(ctx, transfersTable, "transfer", m.ID, postgres.StructToMap(m))
}

func (r *MovementRepo) DeleteTransfer(ctx context.Context, movementID id.ID) error {
	return r.delete(ctx, transfersTable, "transfer", movementID)
}

func (r *MovementRepo) ListTransfers(ctx context.Context, filter movement.ListFilter) (domain.ListResult[*movement.Transfer], error) {
	return list[movement.Transfer](ctx, r, transfersTable, r.transferCols, filter, "from_account_id", "to_account_id")
}

// Vouchers

var voucherTables = []struct {
	table string
	kind  movement.Kind
}{
	{incomesTable, movement.KindIncome},
	{expensesTable, movement.KindExpense},
	{transfersTable, movement.KindTransfer},
}

// GetVouchers probes the movement tables for the id and returns the owning
// kind with the stored collection.
func (r *MovementRepo) GetVouchers(ctx context.Context, movementID id.ID) (movement.Kind, []string, error) {
	querier := r.txm.GetQuerier(ctx)

	for _, probe := range voucherTables {
		sql := "SELECT vouchers FROM " + probe.table + " WHERE id = $1"

		var vouchers []string
		err := querier.QueryRow(ctx, sql, movementID).Scan(&vouchers)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("get vouchers: %w", err)
		}
		if vouchers == nil {
			vouchers = []string{}
		}
		return probe.kind, vouchers, nil
	}

	return "", nil, apperror.NewNotFound("movement", movementID.String())
}

func (r *MovementRepo) SetVouchers(ctx context.Context, kind movement.Kind, movementID id.ID, vouchers []string) error {
	var table string
	switch kind {
	case movement.KindIncome:
		table = incomesTable
	case movement.KindExpense:
		table = expensesTable
	case movement.KindTransfer:
		table = transfersTable
	default:
		return apperror.NewValidation("unknown movement kind").WithDetail("kind", string(kind))
	}

	sql := "UPDATE " + table + " SET vouchers = $1, updated_at = NOW() WHERE id = $2"

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, vouchers, movementID)
	if err != nil {
		return postgres.TranslateError(err, table)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("movement", movementID.String())
	}
	return nil
}
