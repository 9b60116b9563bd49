package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
)

func TestApplyVoucherAction(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		action   VoucherAction
		input    []string
		expected []string
	}{
		{
			name:     "add appends",
			current:  []string{"a.pdf"},
			action:   VoucherAdd,
			input:    []string{"b.pdf"},
			expected: []string{"a.pdf", "b.pdf"},
		},
		{
			name:     "add keeps duplicates",
			current:  []string{"a.pdf"},
			action:   VoucherAdd,
			input:    []string{"a.pdf"},
			expected: []string{"a.pdf", "a.pdf"},
		},
		{
			name:     "remove filters exact matches",
			current:  []string{"a.pdf", "b.pdf", "a.pdf"},
			action:   VoucherRemove,
			input:    []string{"a.pdf"},
			expected: []string{"b.pdf"},
		},
		{
			name:     "remove of absent value is a no-op",
			current:  []string{"a.pdf"},
			action:   VoucherRemove,
			input:    []string{"z.pdf"},
			expected: []string{"a.pdf"},
		},
		{
			name:     "replace discards prior collection",
			current:  []string{"a.pdf", "b.pdf"},
			action:   VoucherReplace,
			input:    []string{"c.pdf"},
			expected: []string{"c.pdf"},
		},
		{
			name:     "replace with empty clears",
			current:  []string{"a.pdf"},
			action:   VoucherReplace,
			input:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyVoucherAction(tt.current, tt.action, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestApplyVoucherAction_UnknownAction(t *testing.T) {
	_, err := ApplyVoucherAction([]string{"a.pdf"}, "merge", []string{"b.pdf"})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApplyVoucherAction_ReplaceIsIdempotent(t *testing.T) {
	input := []string{"x.pdf", "y.pdf"}

	once, err := ApplyVoucherAction([]string{"a.pdf"}, VoucherReplace, input)
	require.NoError(t, err)
	twice, err := ApplyVoucherAction(once, VoucherReplace, input)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMutateVouchers_ResolvesKindByID(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("100")

	exp := NewExpense(accountID, testDate, "gasto", types.MustMoney("10"))
	require.NoError(t, h.service.CreateExpense(ctx, exp))

	updated, err := h.service.MutateVouchers(ctx, exp.ID, VoucherAdd, []string{"factura-1.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"factura-1.pdf"}, updated)

	updated, err = h.service.MutateVouchers(ctx, exp.ID, VoucherReplace, []string{"factura-2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"factura-2.pdf"}, updated)

	kind, stored, err := h.ledger.GetVouchers(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, KindExpense, kind)
	assert.Equal(t, []string{"factura-2.pdf"}, stored)
}

func TestMutateVouchers_UnknownMovement(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	_, err := h.service.MutateVouchers(ctx, id.New(), VoucherAdd, []string{"a.pdf"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestMutateVouchers_InvalidActionLeavesStoredCollection(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	accountID := h.addAccount("100")

	inc := NewIncome(accountID, testDate, "venta", types.MustMoney("10"))
	require.NoError(t, h.service.CreateIncome(ctx, inc))
	_, err := h.service.MutateVouchers(ctx, inc.ID, VoucherAdd, []string{"a.pdf"})
	require.NoError(t, err)

	_, err = h.service.MutateVouchers(ctx, inc.ID, "merge", []string{"b.pdf"})
	require.Error(t, err)

	_, stored, err := h.ledger.GetVouchers(ctx, inc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, stored)
}
