package movement

import (
	"context"
	"fmt"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
	"cajalibro/pkg/logger"
)

var oneQuantity = types.MustMoney("1")

// runCommissionCascade synthesizes the cashier commission expense derived
// from an arqueo income. It runs after the income's own commit, through
// the full expense create path, so it is a wholly independent transaction:
// a cascade failure is logged as CASCADE_ERROR and never reverses or fails
// the already-committed income. The provenance link is carried by the
// synthetic invoice number only.
func (s *Service) runCommissionCascade(ctx context.Context, income *Income) {
	if !income.NeedsCommissionCascade() {
		return
	}

	expense, err := s.buildCommissionExpense(income)
	if err != nil {
		logger.Error(ctx, "commission cascade validation failed",
			"income_id", income.ID,
			"error", err,
		)
		return
	}

	if err := s.CreateExpense(ctx, expense); err != nil {
		logger.Error(ctx, "commission cascade failed",
			"income_id", income.ID,
			"expense_id", expense.ID,
			"error", apperror.NewCascade("commission expense creation failed").WithCause(err),
		)
		return
	}

	logger.Info(ctx, "commission expense cascaded",
		"income_id", income.ID,
		"expense_id", expense.ID,
		"commission", income.CashierCommission.String(),
	)
}

// buildCommissionExpense validates the cascade preconditions and maps the
// arqueo fields onto a single-line expense against the same account.
func (s *Service) buildCommissionExpense(income *Income) (*Expense, error) {
	if income.ArqueoNumber == "" {
		return nil, apperror.NewCascade("arqueo number is required for commission cascade").
			WithDetail("income_id", income.ID.String())
	}
	if income.CashierID == nil || id.IsNil(*income.CashierID) {
		return nil, apperror.NewCascade("cashier is required for commission cascade").
			WithDetail("income_id", income.ID.String())
	}

	expense := NewExpense(
		income.AccountID,
		income.Date,
		fmt.Sprintf("Comisión cajero arqueo %s", income.ArqueoNumber),
		income.CashierCommission,
	)
	expense.ProviderID = income.CashierID
	expense.InvoiceNumber = fmt.Sprintf("ARQ-%s", income.ArqueoNumber)
	expense.TotalGross = income.CashierCommission
	expense.Subtotal = income.CashierCommission
	expense.AddItem(ExpenseItem{
		ProductName: fmt.Sprintf("Comisión arqueo %s", income.ArqueoNumber),
		Quantity:    oneQuantity,
		UnitPrice:   income.CashierCommission,
		Total:       income.CashierCommission,
	})

	return expense, nil
}
