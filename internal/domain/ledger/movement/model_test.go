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

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, field, appErr.Details["field"])
}

func TestIncomeBalanceEffect(t *testing.T) {
	inc := NewIncome(id.New(), testDate, "venta", types.MustMoney("125.50"))
	assert.True(t, inc.BalanceEffect().Equal(types.MustMoney("125.50")))

	inc.Estado = EstadoInactivo
	assert.True(t, inc.BalanceEffect().IsZero())
}

func TestExpenseBalanceEffect(t *testing.T) {
	exp := NewExpense(id.New(), testDate, "compra", types.MustMoney("40"))
	assert.True(t, exp.BalanceEffect().Equal(types.MustMoney("-40")))

	exp.Estado = EstadoInactivo
	assert.True(t, exp.BalanceEffect().IsZero())
}

func TestTransferLegEffects(t *testing.T) {
	tr := NewTransfer(id.New(), id.New(), testDate, "traslado", types.MustMoney("30"))

	from, to := tr.LegEffects()
	assert.True(t, from.Equal(types.MustMoney("-30")))
	assert.True(t, to.Equal(types.MustMoney("30")))

	tr.Estado = EstadoInactivo
	from, to = tr.LegEffects()
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}

func TestIncomeValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid regular income", func(t *testing.T) {
		inc := NewIncome(id.New(), testDate, "venta", types.MustMoney("10"))
		assert.NoError(t, inc.Validate(ctx))
	})

	t.Run("date required", func(t *testing.T) {
		inc := NewIncome(id.New(), time.Time{}, "venta", types.MustMoney("10"))
		assertValidation(t, inc.Validate(ctx), "date")
	})

	t.Run("estado must be known", func(t *testing.T) {
		inc := NewIncome(id.New(), testDate, "venta", types.MustMoney("10"))
		inc.Estado = "pendiente"
		assertValidation(t, inc.Validate(ctx), "estado")
	})

	t.Run("account required", func(t *testing.T) {
		inc := NewIncome(id.Nil(), testDate, "venta", types.MustMoney("10"))
		assertValidation(t, inc.Validate(ctx), "accountId")
	})

	t.Run("amount must be positive", func(t *testing.T) {
		inc := NewIncome(id.New(), testDate, "venta", types.Zero())
		assertValidation(t, inc.Validate(ctx), "amount")
	})

	t.Run("type must be known", func(t *testing.T) {
		inc := NewIncome(id.New(), testDate, "venta", types.MustMoney("10"))
		inc.Type = "devolucion"
		assertValidation(t, inc.Validate(ctx), "type")
	})

	t.Run("negative commission rejected", func(t *testing.T) {
		inc := NewIncome(id.New(), testDate, "arqueo", types.MustMoney("10"))
		inc.Type = IncomeTypeArqueo
		inc.CashierCommission = types.MustMoney("-1")
		assertValidation(t, inc.Validate(ctx), "cashierCommission")
	})
}

func TestExpenseValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid expense with items", func(t *testing.T) {
		exp := NewExpense(id.New(), testDate, "compra", types.MustMoney("15"))
		exp.AddItem(ExpenseItem{
			ProductName: "papel",
			Quantity:    types.MustMoney("3"),
			UnitPrice:   types.MustMoney("5"),
			Total:       types.MustMoney("15"),
		})
		assert.NoError(t, exp.Validate(ctx))
	})

	t.Run("total net must be positive", func(t *testing.T) {
		exp := NewExpense(id.New(), testDate, "compra", types.Zero())
		assertValidation(t, exp.Validate(ctx), "totalNet")
	})

	t.Run("item requires product name", func(t *testing.T) {
		exp := NewExpense(id.New(), testDate, "compra", types.MustMoney("15"))
		exp.AddItem(ExpenseItem{Quantity: types.MustMoney("1")})
		assertValidation(t, exp.Validate(ctx), "items")
	})
}

func TestTransferValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("same account rejected", func(t *testing.T) {
		acc := id.New()
		tr := NewTransfer(acc, acc, testDate, "traslado", types.MustMoney("10"))
		assertValidation(t, tr.Validate(ctx), "toAccountId")
	})

	t.Run("amount must be positive", func(t *testing.T) {
		tr := NewTransfer(id.New(), id.New(), testDate, "traslado", types.Zero())
		assertValidation(t, tr.Validate(ctx), "amount")
	})
}

func TestExpenseAddItemAssignsLineNumbers(t *testing.T) {
	exp := NewExpense(id.New(), testDate, "compra", types.MustMoney("20"))
	exp.AddItem(ExpenseItem{ProductName: "a", Quantity: types.MustMoney("1")})
	exp.AddItem(ExpenseItem{ProductName: "b", Quantity: types.MustMoney("2")})

	require.Len(t, exp.Items, 2)
	assert.Equal(t, 1, exp.Items[0].LineNo)
	assert.Equal(t, 2, exp.Items[1].LineNo)
	assert.False(t, id.IsNil(exp.Items[0].ItemID))
	assert.NotEqual(t, exp.Items[0].ItemID, exp.Items[1].ItemID)
}

func TestNeedsCommissionCascade(t *testing.T) {
	inc := NewIncome(id.New(), testDate, "arqueo", types.MustMoney("500"))
	assert.False(t, inc.NeedsCommissionCascade(), "regular income never cascades")

	inc.Type = IncomeTypeArqueo
	assert.False(t, inc.NeedsCommissionCascade(), "arqueo without commission does not cascade")

	inc.CashierCommission = types.MustMoney("25")
	assert.True(t, inc.NeedsCommissionCascade())
}
