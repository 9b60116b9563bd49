package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain/ledger/movement"
)

// fakeIndex resolves names from a fixed table.
type fakeIndex map[string]id.ID

func (f fakeIndex) NameIndex(ctx context.Context) (map[string]id.ID, error) {
	return f, nil
}

// fakeCreator records created movements. Creates made inside a transaction
// that later fails are discarded by fakeBatchTx, mirroring a rollback.
type fakeCreator struct {
	incomes   []*movement.Income
	expenses  []*movement.Expense
	transfers []*movement.Transfer

	// failDescription makes the create of a movement with this description
	// fail, simulating a row rejected mid-batch.
	failDescription string
}

func (f *fakeCreator) CreateIncome(ctx context.Context, m *movement.Income) error {
	if f.failDescription != "" && m.Description == f.failDescription {
		return apperror.NewValidation("rejected")
	}
	f.incomes = append(f.incomes, m)
	return nil
}

func (f *fakeCreator) CreateExpense(ctx context.Context, m *movement.Expense) error {
	if f.failDescription != "" && m.Description == f.failDescription {
		return apperror.NewValidation("rejected")
	}
	f.expenses = append(f.expenses, m)
	return nil
}

func (f *fakeCreator) CreateTransfer(ctx context.Context, m *movement.Transfer) error {
	if f.failDescription != "" && m.Description == f.failDescription {
		return apperror.NewValidation("rejected")
	}
	f.transfers = append(f.transfers, m)
	return nil
}

// fakeBatchTx mimics the transaction manager's all-or-nothing contract:
// when the batch function fails, every create recorded inside it is
// discarded.
type fakeBatchTx struct {
	creator *fakeCreator
}

func (f *fakeBatchTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	incomes := len(f.creator.incomes)
	expenses := len(f.creator.expenses)
	transfers := len(f.creator.transfers)

	if err := fn(ctx); err != nil {
		f.creator.incomes = f.creator.incomes[:incomes]
		f.creator.expenses = f.creator.expenses[:expenses]
		f.creator.transfers = f.creator.transfers[:transfers]
		return err
	}
	return nil
}

type reconcilerHarness struct {
	creator    *fakeCreator
	reconciler *Reconciler

	cajaID  id.ID
	bancoID id.ID
}

func newReconcilerHarness() *reconcilerHarness {
	h := &reconcilerHarness{
		creator: &fakeCreator{},
		cajaID:  id.New(),
		bancoID: id.New(),
	}

	accounts := fakeIndex{"caja principal": h.cajaID, "banco": h.bancoID}
	categories := fakeIndex{"ventas": id.New()}
	providers := fakeIndex{"proveedor general": id.New()}
	cashiers := fakeIndex{"cajero principal": id.New()}

	h.reconciler = NewReconciler(
		NewCSVRowProducer(),
		h.creator,
		accounts,
		categories,
		providers,
		cashiers,
		&fakeBatchTx{creator: h.creator},
	)
	return h
}

func TestReconciler_ImportsMixedBatch(t *testing.T) {
	h := newReconcilerHarness()

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta,cuenta destino,categoria",
		"ingreso,15/03/2024,venta,100.50,Caja Principal,,Ventas",
		"egreso,15/03/2024,papeleria,20,caja principal,,",
		"traslado,16/03/2024,a banco,50,Caja principal,Banco,",
	}, "\n")

	result, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Result{Rows: 3, Incomes: 1, Expenses: 1, Transfers: 1}, result)

	require.Len(t, h.creator.incomes, 1)
	inc := h.creator.incomes[0]
	assert.Equal(t, h.cajaID, inc.AccountID)
	assert.True(t, inc.Amount.Equal(types.MustMoney("100.50")))
	require.NotNil(t, inc.CategoryID)

	require.Len(t, h.creator.transfers, 1)
	tr := h.creator.transfers[0]
	assert.Equal(t, h.cajaID, tr.FromAccountID)
	assert.Equal(t, h.bancoID, tr.ToAccountID)
}

func TestReconciler_UnknownAccountNameFailsWholeBatch(t *testing.T) {
	h := newReconcilerHarness()

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta",
		"ingreso,15/03/2024,venta,100,Caja principal",
		"egreso,15/03/2024,papeleria,20,Caja Inexistente",
	}, "\n")

	_, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 3, appErr.Details["row"])

	// The earlier valid row must not survive the rollback.
	assert.Empty(t, h.creator.incomes)
	assert.Empty(t, h.creator.expenses)
}

func TestReconciler_CreateFailureRollsBackPriorRows(t *testing.T) {
	h := newReconcilerHarness()
	h.creator.failDescription = "rechazado"

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta",
		"ingreso,15/03/2024,venta,100,Caja principal",
		"egreso,15/03/2024,rechazado,20,Caja principal",
	}, "\n")

	_, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Empty(t, h.creator.incomes)
	assert.Empty(t, h.creator.expenses)
}

func TestReconciler_UnknownRowTypeFailsBatch(t *testing.T) {
	h := newReconcilerHarness()

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta",
		"devolucion,15/03/2024,raro,10,Caja principal",
	}, "\n")

	_, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, FieldTipo, appErr.Details["field"])
}

func TestReconciler_BadDateFailsBatch(t *testing.T) {
	h := newReconcilerHarness()

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta",
		"ingreso,ayer,venta,100,Caja principal",
	}, "\n")

	_, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeParse, appErr.Code)
	assert.Equal(t, 2, appErr.Details["row"])
}

func TestReconciler_DecimalCommaAmount(t *testing.T) {
	h := newReconcilerHarness()

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta",
		`ingreso,15/03/2024,venta,"100,50",Caja principal`,
	}, "\n")

	result, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Incomes)
	require.Len(t, h.creator.incomes, 1)
	assert.True(t, h.creator.incomes[0].Amount.Equal(types.MustMoney("100.50")))
}

func TestReconciler_EmptyBatchRejected(t *testing.T) {
	h := newReconcilerHarness()

	_, err := h.reconciler.Run(context.Background(), nil)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReconciler_MissingTransferDestination(t *testing.T) {
	h := newReconcilerHarness()

	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta,cuenta destino",
		"traslado,15/03/2024,a banco,50,Caja principal,",
	}, "\n")

	_, err := h.reconciler.ImportFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, h.creator.transfers)
}
