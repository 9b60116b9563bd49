package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/tx"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/pkg/logger"
)

// NameResolver supplies a case-insensitive, trimmed name -> id lookup
// table. Implemented by the account service and the catalog services.
type NameResolver interface {
	NameIndex(ctx context.Context) (map[string]id.ID, error)
}

// MovementCreator feeds resolved rows through the movement lifecycle.
// Inside the batch transaction each create joins the batch instead of
// opening its own transaction.
type MovementCreator interface {
	CreateIncome(ctx context.Context, m *movement.Income) error
	CreateExpense(ctx context.Context, m *movement.Expense) error
	CreateTransfer(ctx context.Context, m *movement.Transfer) error
}

// Reconciler turns uploaded rows into committed movements. The batch is
// all-or-nothing: every row runs sequentially inside one transaction and
// any row failure rolls back all rows processed so far.
type Reconciler struct {
	producer   RowProducer
	movements  MovementCreator
	accounts   NameResolver
	categories NameResolver
	providers  NameResolver
	cashiers   NameResolver
	txManager  tx.Manager
}

// NewReconciler creates a bulk import reconciler.
func NewReconciler(
	producer RowProducer,
	movements MovementCreator,
	accounts NameResolver,
	categories NameResolver,
	providers NameResolver,
	cashiers NameResolver,
	txManager tx.Manager,
) *Reconciler {
	return &Reconciler{
		producer:   producer,
		movements:  movements,
		accounts:   accounts,
		categories: categories,
		providers:  providers,
		cashiers:   cashiers,
		txManager:  txManager,
	}
}

// Result summarizes a committed batch.
type Result struct {
	Rows      int `json:"rows"`
	Incomes   int `json:"incomes"`
	Expenses  int `json:"expenses"`
	Transfers int `json:"transfers"`
}

// lookups holds the per-batch name resolution tables, built once at the
// start of the batch.
type lookups struct {
	accounts   map[string]id.ID
	categories map[string]id.ID
	providers  map[string]id.ID
	cashiers   map[string]id.ID
}

// ImportFile parses an uploaded buffer and reconciles its rows. A parse
// failure of the whole file surfaces as PARSE_ERROR before any row runs.
func (r *Reconciler) ImportFile(ctx context.Context, f io.Reader) (Result, error) {
	rows, err := r.producer.Produce(f)
	if err != nil {
		return Result{}, err
	}
	return r.Run(ctx, rows)
}

// Run reconciles a batch of rows inside one transaction.
func (r *Reconciler) Run(ctx context.Context, rows []Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, apperror.NewValidation("import file contains no rows")
	}

	lk, err := r.buildLookups(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("build lookup tables: %w", err)
	}

	var result Result
	err = r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			if err := r.reconcileRow(ctx, row, lk, &result); err != nil {
				return err
			}
			result.Rows++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info(ctx, "bulk import committed",
		"rows", result.Rows,
		"incomes", result.Incomes,
		"expenses", result.Expenses,
		"transfers", result.Transfers,
	)

	return result, nil
}

func (r *Reconciler) buildLookups(ctx context.Context) (*lookups, error) {
	accounts, err := r.accounts.NameIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}
	categories, err := r.categories.NameIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	providers, err := r.providers.NameIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("providers: %w", err)
	}
	cashiers, err := r.cashiers.NameIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("cashiers: %w", err)
	}

	return &lookups{
		accounts:   accounts,
		categories: categories,
		providers:  providers,
		cashiers:   cashiers,
	}, nil
}

// reconcileRow maps one row onto a movement creation. Any unresolvable
// name or malformed value fails the batch with the row index and content
// in the error details.
func (r *Reconciler) reconcileRow(ctx context.Context, row Row, lk *lookups, result *Result) error {
	tipo := strings.ToLower(row.Get(FieldTipo))

	date, err := ParseRowDate(row.Get(FieldFecha))
	if err != nil {
		return attachRow(err, row)
	}

	amount, err := parseAmount(row.Get(FieldMonto))
	if err != nil {
		return attachRow(err, row)
	}

	switch tipo {
	case RowTipoIngreso:
		accountID, err := resolveName(lk.accounts, "account", row.Get(FieldCuenta), row)
		if err != nil {
			return err
		}

		m := movement.NewIncome(accountID, date, row.Get(FieldDescripcion), amount)
		if m.CategoryID, err = resolveOptionalName(lk.categories, "category", row.Get(FieldCategoria), row); err != nil {
			return err
		}
		if m.CashierID, err = resolveOptionalName(lk.cashiers, "cashier", row.Get(FieldCajero), row); err != nil {
			return err
		}

		if err := r.movements.CreateIncome(ctx, m); err != nil {
			return attachRow(err, row)
		}
		result.Incomes++
		return nil

	case RowTipoEgreso:
		accountID, err := resolveName(lk.accounts, "account", row.Get(FieldCuenta), row)
		if err != nil {
			return err
		}

		m := movement.NewExpense(accountID, date, row.Get(FieldDescripcion), amount)
		m.TotalGross = amount
		m.Subtotal = amount
		if m.CategoryID, err = resolveOptionalName(lk.categories, "category", row.Get(FieldCategoria), row); err != nil {
			return err
		}
		if m.ProviderID, err = resolveOptionalName(lk.providers, "provider", row.Get(FieldProveedor), row); err != nil {
			return err
		}

		if err := r.movements.CreateExpense(ctx, m); err != nil {
			return attachRow(err, row)
		}
		result.Expenses++
		return nil

	case RowTipoTraslado:
		fromID, err := resolveName(lk.accounts, "account", row.Get(FieldCuenta), row)
		if err != nil {
			return err
		}
		toID, err := resolveName(lk.accounts, "account", row.Get(FieldCuentaDestino), row)
		if err != nil {
			return err
		}

		m := movement.NewTransfer(fromID, toID, date, row.Get(FieldDescripcion), amount)
		if err := r.movements.CreateTransfer(ctx, m); err != nil {
			return attachRow(err, row)
		}
		result.Transfers++
		return nil

	default:
		return attachRow(apperror.NewValidation("unknown row type").
			WithDetail("field", FieldTipo).
			WithDetail("value", tipo), row)
	}
}

// normalizeName is the shared key normalization for lookup tables:
// case-insensitive, trimmed.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func resolveName(index map[string]id.ID, entity, name string, row Row) (id.ID, error) {
	if strings.TrimSpace(name) == "" {
		return id.Nil(), attachRow(apperror.NewValidation(entity+" name is required"), row)
	}
	resolved, ok := index[normalizeName(name)]
	if !ok {
		return id.Nil(), attachRow(apperror.NewValidation("unknown "+entity+" name").
			WithDetail("entity", entity).
			WithDetail("name", name), row)
	}
	return resolved, nil
}

func resolveOptionalName(index map[string]id.ID, entity, name string, row Row) (*id.ID, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	resolved, err := resolveName(index, entity, name, row)
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

func parseAmount(s string) (types.Money, error) {
	if s == "" {
		return types.Zero(), apperror.NewValidation("monto is required").
			WithDetail("field", FieldMonto)
	}
	// Tolerate European-style decimal commas from exported sheets
	s = strings.ReplaceAll(s, ",", ".")
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		return types.Zero(), apperror.NewValidation("monto is not a number").
			WithDetail("field", FieldMonto).
			WithDetail("value", s)
	}
	return m, nil
}

// attachRow tags an error with the failing row's index and content so the
// caller can locate it in the uploaded file.
func attachRow(err error, row Row) error {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.WithDetail("row", row.Index).WithDetail("rowContent", row.Fields)
	}
	return fmt.Errorf("row %d: %w", row.Index, err)
}
