package movement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
)

var testDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func balanceOf(t *testing.T, h *testHarness, accountID id.ID) string {
	t.Helper()
	return h.ledger.balances[accountID].String()
}

func TestCreateExpense_DebitsAndDeleteRestores(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("100")

	exp := NewExpense(accountID, testDate, "papeleria", types.MustMoney("30"))
	require.NoError(t, h.service.CreateExpense(ctx, exp))
	assert.Equal(t, "70", balanceOf(t, h, accountID))

	require.NoError(t, h.service.DeleteExpense(ctx, exp.ID))
	assert.Equal(t, "100", balanceOf(t, h, accountID))

	_, err := h.service.GetExpense(ctx, exp.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateExpense_InsufficientBalanceRollsBack(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("20")

	exp := NewExpense(accountID, testDate, "too big", types.MustMoney("50"))
	err := h.service.CreateExpense(ctx, exp)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientBalance(err))

	// Nothing persisted, balance untouched
	assert.Equal(t, "20", balanceOf(t, h, accountID))
	assert.Empty(t, h.ledger.expenses)
}

func TestCreateExpense_UnknownCategoryRollsBack(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("100")

	unknown := id.New()
	exp := NewExpense(accountID, testDate, "misc", types.MustMoney("10"))
	exp.CategoryID = &unknown

	err := h.service.CreateExpense(ctx, exp)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "100", balanceOf(t, h, accountID))
	assert.Empty(t, h.ledger.expenses)
}

func TestCreateTransfer_MovesBothLegs(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	from := h.addAccount("100")
	to := h.addAccount("100")

	tr := NewTransfer(from, to, testDate, "fondeo", types.MustMoney("40"))
	require.NoError(t, h.service.CreateTransfer(ctx, tr))
	assert.Equal(t, "60", balanceOf(t, h, from))
	assert.Equal(t, "140", balanceOf(t, h, to))

	require.NoError(t, h.service.DeleteTransfer(ctx, tr.ID))
	assert.Equal(t, "100", balanceOf(t, h, from))
	assert.Equal(t, "100", balanceOf(t, h, to))
}

func TestCreateTransfer_InsufficientSourceRollsBackBothLegs(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	from := h.addAccount("30")
	to := h.addAccount("100")

	tr := NewTransfer(from, to, testDate, "overdraw", types.MustMoney("50"))
	err := h.service.CreateTransfer(ctx, tr)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientBalance(err))

	assert.Equal(t, "30", balanceOf(t, h, from))
	assert.Equal(t, "100", balanceOf(t, h, to))
	assert.Empty(t, h.ledger.transfers)
}

func TestCreateTransfer_UnknownDestinationRollsBackDebit(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	from := h.addAccount("100")

	tr := NewTransfer(from, id.New(), testDate, "nowhere", types.MustMoney("40"))
	err := h.service.CreateTransfer(ctx, tr)
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, "100", balanceOf(t, h, from))
	assert.Empty(t, h.ledger.transfers)
}

func TestUpdateIncome_DeltaAgainstStoredState(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("20")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("50"))
	require.NoError(t, h.service.CreateIncome(ctx, inc))
	assert.Equal(t, "70", balanceOf(t, h, accountID))

	// Lower the amount: delta is 30 - 50 = -20
	inc.Amount = types.MustMoney("30")
	require.NoError(t, h.service.UpdateIncome(ctx, inc))
	assert.Equal(t, "50", balanceOf(t, h, accountID))

	stored, err := h.service.GetIncome(ctx, inc.ID)
	require.NoError(t, err)
	assert.Equal(t, "30", stored.Amount.String())
}

func TestUpdateIncome_NoChangeAppliesNoDelta(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("20")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("50"))
	require.NoError(t, h.service.CreateIncome(ctx, inc))

	calls := h.ledger.deltaCalls
	require.NoError(t, h.service.UpdateIncome(ctx, inc))

	assert.Equal(t, "70", balanceOf(t, h, accountID))
	assert.Equal(t, calls, h.ledger.deltaCalls)
}

func TestUpdateIncome_DeactivateReversesEffect(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("20")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("50"))
	require.NoError(t, h.service.CreateIncome(ctx, inc))
	assert.Equal(t, "70", balanceOf(t, h, accountID))

	// Inactive effect is zero, so the update delta is -50
	inc.Estado = EstadoInactivo
	require.NoError(t, h.service.UpdateIncome(ctx, inc))
	assert.Equal(t, "20", balanceOf(t, h, accountID))
}

func TestUpdateExpense_AccountChangeMovesFullEffect(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	first := h.addAccount("100")
	second := h.addAccount("50")

	exp := NewExpense(first, testDate, "servicio", types.MustMoney("30"))
	require.NoError(t, h.service.CreateExpense(ctx, exp))
	assert.Equal(t, "70", balanceOf(t, h, first))

	exp.AccountID = second
	require.NoError(t, h.service.UpdateExpense(ctx, exp))

	assert.Equal(t, "100", balanceOf(t, h, first))
	assert.Equal(t, "20", balanceOf(t, h, second))
}

func TestDeleteIncome_InactiveSkipsReversal(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("20")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("50"))
	require.NoError(t, h.service.CreateIncome(ctx, inc))

	inc.Estado = EstadoInactivo
	require.NoError(t, h.service.UpdateIncome(ctx, inc))
	assert.Equal(t, "20", balanceOf(t, h, accountID))

	calls := h.ledger.deltaCalls
	require.NoError(t, h.service.DeleteIncome(ctx, inc.ID))

	assert.Equal(t, "20", balanceOf(t, h, accountID))
	assert.Equal(t, calls, h.ledger.deltaCalls)
}

func TestDeleteIncome_InsufficientBalanceAbortsDelete(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("20")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("50"))
	require.NoError(t, h.service.CreateIncome(ctx, inc))

	exp := NewExpense(accountID, testDate, "gasto", types.MustMoney("60"))
	require.NoError(t, h.service.CreateExpense(ctx, exp))
	assert.Equal(t, "10", balanceOf(t, h, accountID))

	// Reversing -50 would overdraw; the movement must survive
	err := h.service.DeleteIncome(ctx, inc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientBalance(err))

	assert.Equal(t, "10", balanceOf(t, h, accountID))
	_, err = h.service.GetIncome(ctx, inc.ID)
	assert.NoError(t, err)
}

func TestUpdateTransfer_AmountChangeAdjustsBothLegs(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	from := h.addAccount("100")
	to := h.addAccount("100")

	tr := NewTransfer(from, to, testDate, "fondeo", types.MustMoney("40"))
	require.NoError(t, h.service.CreateTransfer(ctx, tr))

	tr.Amount = types.MustMoney("10")
	require.NoError(t, h.service.UpdateTransfer(ctx, tr))

	assert.Equal(t, "90", balanceOf(t, h, from))
	assert.Equal(t, "110", balanceOf(t, h, to))
}

// --- Commission cascade ---

func arqueoIncome(h *testHarness, accountID id.ID) *Income {
	cashierID := id.New()
	h.cashiers[cashierID] = true

	inc := NewIncome(accountID, testDate, "arqueo turno", types.MustMoney("500"))
	inc.Type = IncomeTypeArqueo
	inc.CashierID = &cashierID
	inc.ArqueoNumber = "001"
	inc.CashierCommission = types.MustMoney("25")
	inc.CashReceived = types.MustMoney("500")
	return inc
}

func TestCreateIncome_ArqueoCascadesCommissionExpense(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("0")

	inc := arqueoIncome(h, accountID)
	require.NoError(t, h.service.CreateIncome(ctx, inc))

	// +500 from the income, -25 from the cascaded commission
	assert.Equal(t, "475", balanceOf(t, h, accountID))

	require.Len(t, h.ledger.expenses, 1)
	for _, exp := range h.ledger.expenses {
		assert.Equal(t, "25", exp.TotalNet.String())
		assert.Equal(t, "ARQ-001", exp.InvoiceNumber)
		require.NotNil(t, exp.ProviderID)
		assert.Equal(t, *inc.CashierID, *exp.ProviderID)
	}
}

func TestCreateIncome_CascadeFailureKeepsIncome(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("0")

	inc := arqueoIncome(h, accountID)
	h.ledger.failExpenseInsert = true

	// The income commit already happened; the cascade failure is logged
	// and never surfaced.
	require.NoError(t, h.service.CreateIncome(ctx, inc))

	assert.Equal(t, "500", balanceOf(t, h, accountID))
	assert.Empty(t, h.ledger.expenses)
	_, err := h.service.GetIncome(ctx, inc.ID)
	assert.NoError(t, err)
}

func TestCreateIncome_CascadeSkippedWithoutCashier(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("0")

	inc := arqueoIncome(h, accountID)
	inc.CashierID = nil

	require.NoError(t, h.service.CreateIncome(ctx, inc))

	assert.Equal(t, "500", balanceOf(t, h, accountID))
	assert.Empty(t, h.ledger.expenses)
}

func TestCreateIncome_RegularTypeNeverCascades(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("0")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("100"))
	inc.CashierCommission = types.MustMoney("10")
	require.NoError(t, h.service.CreateIncome(ctx, inc))

	assert.Equal(t, "100", balanceOf(t, h, accountID))
	assert.Empty(t, h.ledger.expenses)
}
