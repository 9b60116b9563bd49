// Package movement provides the movement lifecycle: incomes, expenses and
// transfers, the balance deltas they produce, voucher set mutation and the
// cashier commission cascade.
package movement

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/entity"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
)

// Kind discriminates the movement union.
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
)

// Estado values. An inactive movement's effect is excluded from balance.
const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

// Income type values. Arqueo incomes may cascade a commission expense.
const (
	IncomeTypeRegular = "ingreso"
	IncomeTypeArqueo  = "arqueo"
)

// Base contains the fields shared by every movement kind.
type Base struct {
	entity.BaseEntity

	Date        time.Time `db:"date" json:"date"`
	Description string    `db:"description" json:"description"`

	// Estado is the active/inactive flag. Inactive movements keep their
	// row but contribute nothing to the account balance.
	Estado string `db:"estado" json:"estado"`

	// Vouchers holds supporting-document references. Stored as text[]
	// and bound directly by the driver; ordered, duplicates permitted.
	Vouchers []string `db:"vouchers" json:"vouchers"`
}

// NewBase creates movement base fields with generated ID.
func NewBase(date time.Time, description string) Base {
	return Base{
		BaseEntity:  entity.NewBaseEntity(),
		Date:        date,
		Description: description,
		Estado:      EstadoActivo,
		Vouchers:    []string{},
	}
}

// IsActive reports whether the movement's effect counts toward balance.
func (b *Base) IsActive() bool {
	return b.Estado != EstadoInactivo
}

func (b *Base) validate(ctx context.Context) error {
	if b.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if b.Estado != EstadoActivo && b.Estado != EstadoInactivo {
		return apperror.NewValidation("estado must be activo or inactivo").
			WithDetail("field", "estado").
			WithDetail("value", b.Estado)
	}
	return nil
}

// Adjustments maps a label to a signed informational amount (arqueo custom
// line items). Stored as JSONB; it never moves balance on its own.
// Implements sql.Scanner and driver.Valuer for PostgreSQL JSONB mapping.
type Adjustments map[string]types.Money

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (a *Adjustments) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Adjustments: %T", src)
	}

	if len(source) == 0 {
		*a = nil
		return nil
	}

	// UseNumber preserves numeric precision for decimal parsing
	decoder := json.NewDecoder(bytes.NewReader(source))
	decoder.UseNumber()

	var raw map[string]json.Number
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode Adjustments: %w", err)
	}

	result := make(Adjustments, len(raw))
	for k, n := range raw {
		m, err := types.NewMoneyFromString(n.String())
		if err != nil {
			return fmt.Errorf("failed to decode Adjustments[%s]: %w", k, err)
		}
		result[k] = m
	}

	*a = result
	return nil
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (a Adjustments) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Income credits an account. Arqueo incomes carry cashier settlement
// fields and may trigger a derived commission expense.
type Income struct {
	Base

	AccountID id.ID       `db:"account_id" json:"accountId"`
	Amount    types.Money `db:"amount" json:"amount"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// Type is ingreso or arqueo
	Type string `db:"type" json:"type"`

	// Cashier settlement fields (arqueo)
	CashierID         *id.ID      `db:"cashier_id" json:"cashierId,omitempty"`
	ArqueoNumber      string      `db:"arqueo_number" json:"arqueoNumber,omitempty"`
	CashierCommission types.Money `db:"cashier_commission" json:"cashierCommission"`
	CashReceived      types.Money `db:"cash_received" json:"cashReceived"`
	StartPeriod       *time.Time  `db:"start_period" json:"startPeriod,omitempty"`
	EndPeriod         *time.Time  `db:"end_period" json:"endPeriod,omitempty"`

	// CustomLineItems are informational adjustments shown on the arqueo;
	// they do not independently move balance.
	CustomLineItems Adjustments `db:"custom_line_items" json:"customLineItems,omitempty"`
}

// NewIncome creates an active income with generated ID.
func NewIncome(accountID id.ID, date time.Time, description string, amount types.Money) *Income {
	return &Income{
		Base:      NewBase(date, description),
		AccountID: accountID,
		Amount:    amount,
		Type:      IncomeTypeRegular,
	}
}

// BalanceEffect returns the signed delta this income applies to its
// account: +amount while active, zero while inactive.
func (m *Income) BalanceEffect() types.Money {
	if !m.IsActive() {
		return types.Zero()
	}
	return m.Amount
}

// IsArqueo reports whether this income is a cash-count reconciliation.
func (m *Income) IsArqueo() bool {
	return m.Type == IncomeTypeArqueo
}

// NeedsCommissionCascade reports whether creating this income must
// synthesize a derived commission expense.
func (m *Income) NeedsCommissionCascade() bool {
	return m.IsArqueo() && m.CashierCommission.IsPositive()
}

// Validate implements entity.Validatable.
func (m *Income) Validate(ctx context.Context) error {
	if err := m.Base.validate(ctx); err != nil {
		return err
	}
	if id.IsNil(m.AccountID) {
		return apperror.NewValidation("account is required").WithDetail("field", "accountId")
	}
	if !m.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", m.Amount.String())
	}
	if m.Type != IncomeTypeRegular && m.Type != IncomeTypeArqueo {
		return apperror.NewValidation("type must be ingreso or arqueo").
			WithDetail("field", "type").
			WithDetail("value", m.Type)
	}
	if m.CashierCommission.IsNegative() {
		return apperror.NewValidation("cashier commission cannot be negative").
			WithDetail("field", "cashierCommission")
	}
	if m.CashReceived.IsNegative() {
		return apperror.NewValidation("cash received cannot be negative").
			WithDetail("field", "cashReceived")
	}
	return nil
}

// Expense debits an account. TotalNet is the only balance-affecting
// figure; the tax/discount breakdown is informational.
type Expense struct {
	Base

	AccountID id.ID       `db:"account_id" json:"accountId"`
	TotalNet  types.Money `db:"total_net" json:"totalNet"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`
	ProviderID *id.ID `db:"provider_id" json:"providerId,omitempty"`

	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber,omitempty"`

	// Informational breakdown
	TotalGross     types.Money `db:"total_gross" json:"totalGross"`
	Discounts      types.Money `db:"discounts" json:"discounts"`
	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	TaxCharge      types.Money `db:"tax_charge" json:"taxCharge"`
	TaxWithholding types.Money `db:"tax_withholding" json:"taxWithholding"`

	// Table part: purchased line items
	Items []ExpenseItem `db:"-" json:"items"`
}

// ExpenseItem represents a line in the expense.
type ExpenseItem struct {
	ItemID id.ID `db:"item_id" json:"itemId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	ProductName    string      `db:"product_name" json:"productName"`
	Quantity       types.Money `db:"quantity" json:"quantity"`
	UnitPrice      types.Money `db:"unit_price" json:"unitPrice"`
	Discount       types.Money `db:"discount" json:"discount"`
	Total          types.Money `db:"total" json:"total"`
	TaxCharge      types.Money `db:"tax_charge" json:"taxCharge"`
	TaxWithholding types.Money `db:"tax_withholding" json:"taxWithholding"`
}

// NewExpense creates an active expense with generated ID.
func NewExpense(accountID id.ID, date time.Time, description string, totalNet types.Money) *Expense {
	return &Expense{
		Base:      NewBase(date, description),
		AccountID: accountID,
		TotalNet:  totalNet,
		Items:     make([]ExpenseItem, 0),
	}
}

// AddItem appends a line item with generated id and next line number.
func (m *Expense) AddItem(item ExpenseItem) {
	item.ItemID = id.New()
	item.LineNo = len(m.Items) + 1
	m.Items = append(m.Items, item)
}

// BalanceEffect returns the signed delta this expense applies to its
// account: -total_net while active, zero while inactive.
func (m *Expense) BalanceEffect() types.Money {
	if !m.IsActive() {
		return types.Zero()
	}
	return m.TotalNet.Neg()
}

// Validate implements entity.Validatable.
func (m *Expense) Validate(ctx context.Context) error {
	if err := m.Base.validate(ctx); err != nil {
		return err
	}
	if id.IsNil(m.AccountID) {
		return apperror.NewValidation("account is required").WithDetail("field", "accountId")
	}
	if !m.TotalNet.IsPositive() {
		return apperror.NewValidation("total net must be positive").
			WithDetail("field", "totalNet").
			WithDetail("value", m.TotalNet.String())
	}
	for i, item := range m.Items {
		if item.ProductName == "" {
			return apperror.NewValidation("product name is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity.IsNegative() {
			return apperror.NewValidation("quantity cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// Transfer moves funds between two accounts: debits From, credits To.
type Transfer struct {
	Base

	FromAccountID id.ID       `db:"from_account_id" json:"fromAccountId"`
	ToAccountID   id.ID       `db:"to_account_id" json:"toAccountId"`
	Amount        types.Money `db:"amount" json:"amount"`
}

// NewTransfer creates an active transfer with generated ID.
func NewTransfer(from, to id.ID, date time.Time, description string, amount types.Money) *Transfer {
	return &Transfer{
		Base:          NewBase(date, description),
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
	}
}

// LegEffects returns the signed deltas for the (from, to) legs.
// Both are zero while the transfer is inactive.
func (m *Transfer) LegEffects() (fromDelta, toDelta types.Money) {
	if !m.IsActive() {
		return types.Zero(), types.Zero()
	}
	return m.Amount.Neg(), m.Amount
}

// Validate implements entity.Validatable.
func (m *Transfer) Validate(ctx context.Context) error {
	if err := m.Base.validate(ctx); err != nil {
		return err
	}
	if id.IsNil(m.FromAccountID) {
		return apperror.NewValidation("source account is required").WithDetail("field", "fromAccountId")
	}
	if id.IsNil(m.ToAccountID) {
		return apperror.NewValidation("destination account is required").WithDetail("field", "toAccountId")
	}
	if m.FromAccountID == m.ToAccountID {
		return apperror.NewValidation("source and destination accounts must differ").
			WithDetail("field", "toAccountId")
	}
	if !m.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", m.Amount.String())
	}
	return nil
}

// Ensure interface compliance at compile time.
var (
	_ entity.Validatable = (*Income)(nil)
	_ entity.Validatable = (*Expense)(nil)
	_ entity.Validatable = (*Transfer)(nil)
)
