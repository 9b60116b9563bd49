package dto

import (
	"time"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain/ledger/movement"
)

// parseMoney parses a money field; empty values map to zero.
func parseMoney(field, value string) (types.Money, error) {
	if value == "" {
		return types.Zero(), nil
	}
	m, err := types.NewMoneyFromString(value)
	if err != nil {
		return types.Zero(), apperror.NewValidation(field+" is not a number").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return m, nil
}

// movementBase moves the shared request fields onto a movement base.
func applyBase(b *movement.Base, date time.Time, description, estado string, vouchers []string) {
	b.Date = date
	b.Description = description
	if estado != "" {
		b.Estado = estado
	}
	if vouchers != nil {
		b.Vouchers = vouchers
	}
}

// MovementBaseResponse contains fields shared by all movement kinds.
type MovementBaseResponse struct {
	BaseResponse
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Estado      string    `json:"estado"`
	Vouchers    []string  `json:"vouchers"`
}

func fromMovementBase(b movement.Base) MovementBaseResponse {
	vouchers := b.Vouchers
	if vouchers == nil {
		vouchers = []string{}
	}
	return MovementBaseResponse{
		BaseResponse: FromBaseEntity(b.BaseEntity),
		Date:         b.Date,
		Description:  b.Description,
		Estado:       b.Estado,
		Vouchers:     vouchers,
	}
}

// --- Income ---

// IncomeRequest carries the full income payload. Used for both create and
// update; updates replace the stored row.
type IncomeRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
	Estado      string    `json:"estado"`
	Vouchers    []string  `json:"vouchers"`

	AccountID  string  `json:"accountId" binding:"required"`
	Amount     string  `json:"amount" binding:"required"`
	CategoryID *string `json:"categoryId"`
	Type       string  `json:"type"`

	CashierID         *string           `json:"cashierId"`
	ArqueoNumber      string            `json:"arqueoNumber"`
	CashierCommission string            `json:"cashierCommission"`
	CashReceived      string            `json:"cashReceived"`
	StartPeriod       *time.Time        `json:"startPeriod"`
	EndPeriod         *time.Time        `json:"endPeriod"`
	CustomLineItems   map[string]string `json:"customLineItems"`
}

// ToEntity maps the request to a new Income.
func (r IncomeRequest) ToEntity() (*movement.Income, error) {
	accountID, err := ParseID("accountId", r.AccountID)
	if err != nil {
		return nil, err
	}
	amount, err := parseMoney("amount", r.Amount)
	if err != nil {
		return nil, err
	}

	m := movement.NewIncome(accountID, r.Date, r.Description, amount)
	applyBase(&m.Base, r.Date, r.Description, r.Estado, r.Vouchers)

	if r.Type != "" {
		m.Type = r.Type
	}
	if m.CategoryID, err = ParseOptionalID("categoryId", r.CategoryID); err != nil {
		return nil, err
	}
	if m.CashierID, err = ParseOptionalID("cashierId", r.CashierID); err != nil {
		return nil, err
	}
	m.ArqueoNumber = r.ArqueoNumber
	if m.CashierCommission, err = parseMoney("cashierCommission", r.CashierCommission); err != nil {
		return nil, err
	}
	if m.CashReceived, err = parseMoney("cashReceived", r.CashReceived); err != nil {
		return nil, err
	}
	m.StartPeriod = r.StartPeriod
	m.EndPeriod = r.EndPeriod

	if len(r.CustomLineItems) > 0 {
		items := make(movement.Adjustments, len(r.CustomLineItems))
		for label, value := range r.CustomLineItems {
			amount, err := parseMoney("customLineItems."+label, value)
			if err != nil {
				return nil, err
			}
			items[label] = amount
		}
		m.CustomLineItems = items
	}

	return m, nil
}

// IncomeResponse contains income fields.
type IncomeResponse struct {
	MovementBaseResponse

	AccountID  string  `json:"accountId"`
	Amount     string  `json:"amount"`
	CategoryID *string `json:"categoryId,omitempty"`
	Type       string  `json:"type"`

	CashierID         *string           `json:"cashierId,omitempty"`
	ArqueoNumber      string            `json:"arqueoNumber,omitempty"`
	CashierCommission string            `json:"cashierCommission"`
	CashReceived      string            `json:"cashReceived"`
	StartPeriod       *time.Time        `json:"startPeriod,omitempty"`
	EndPeriod         *time.Time        `json:"endPeriod,omitempty"`
	CustomLineItems   map[string]string `json:"customLineItems,omitempty"`
}

// FromIncome creates IncomeResponse from the entity.
func FromIncome(m *movement.Income) IncomeResponse {
	resp := IncomeResponse{
		MovementBaseResponse: fromMovementBase(m.Base),
		AccountID:            m.AccountID.String(),
		Amount:               m.Amount.String(),
		Type:                 m.Type,
		ArqueoNumber:         m.ArqueoNumber,
		CashierCommission:    m.CashierCommission.String(),
		CashReceived:         m.CashReceived.String(),
		StartPeriod:          m.StartPeriod,
		EndPeriod:            m.EndPeriod,
	}
	if m.CategoryID != nil {
		s := m.CategoryID.String()
		resp.CategoryID = &s
	}
	if m.CashierID != nil {
		s := m.CashierID.String()
		resp.CashierID = &s
	}
	if len(m.CustomLineItems) > 0 {
		items := make(map[string]string, len(m.CustomLineItems))
		for label, amount := range m.CustomLineItems {
			items[label] = amount.String()
		}
		resp.CustomLineItems = items
	}
	return resp
}

// --- Expense ---

// ExpenseItemRequest carries one expense line item. An empty itemId marks
// a new line; a present one matches the stored line during reconciliation.
type ExpenseItemRequest struct {
	ItemID         *string `json:"itemId"`
	CategoryID     *string `json:"categoryId"`
	ProductName    string  `json:"productName" binding:"required"`
	Quantity       string  `json:"quantity"`
	UnitPrice      string  `json:"unitPrice"`
	Discount       string  `json:"discount"`
	Total          string  `json:"total"`
	TaxCharge      string  `json:"taxCharge"`
	TaxWithholding string  `json:"taxWithholding"`
}

func (r ExpenseItemRequest) toEntity(lineNo int) (movement.ExpenseItem, error) {
	var item movement.ExpenseItem
	var err error

	if r.ItemID != nil && *r.ItemID != "" {
		if item.ItemID, err = ParseID("items.itemId", *r.ItemID); err != nil {
			return item, err
		}
	}
	item.LineNo = lineNo
	if item.CategoryID, err = ParseOptionalID("items.categoryId", r.CategoryID); err != nil {
		return item, err
	}
	item.ProductName = r.ProductName
	if item.Quantity, err = parseMoney("items.quantity", r.Quantity); err != nil {
		return item, err
	}
	if item.UnitPrice, err = parseMoney("items.unitPrice", r.UnitPrice); err != nil {
		return item, err
	}
	if item.Discount, err = parseMoney("items.discount", r.Discount); err != nil {
		return item, err
	}
	if item.Total, err = parseMoney("items.total", r.Total); err != nil {
		return item, err
	}
	if item.TaxCharge, err = parseMoney("items.taxCharge", r.TaxCharge); err != nil {
		return item, err
	}
	if item.TaxWithholding, err = parseMoney("items.taxWithholding", r.TaxWithholding); err != nil {
		return item, err
	}
	return item, nil
}

// ExpenseRequest carries the full expense payload. Used for both create
// and update; updates replace the stored row and reconcile its items.
type ExpenseRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
	Estado      string    `json:"estado"`
	Vouchers    []string  `json:"vouchers"`

	AccountID     string  `json:"accountId" binding:"required"`
	TotalNet      string  `json:"totalNet" binding:"required"`
	CategoryID    *string `json:"categoryId"`
	ProviderID    *string `json:"providerId"`
	InvoiceNumber string  `json:"invoiceNumber"`

	TotalGross     string `json:"totalGross"`
	Discounts      string `json:"discounts"`
	Subtotal       string `json:"subtotal"`
	TaxCharge      string `json:"taxCharge"`
	TaxWithholding string `json:"taxWithholding"`

	Items []ExpenseItemRequest `json:"items"`
}

// ToEntity maps the request to a new Expense.
func (r ExpenseRequest) ToEntity() (*movement.Expense, error) {
	accountID, err := ParseID("accountId", r.AccountID)
	if err != nil {
		return nil, err
	}
	totalNet, err := parseMoney("totalNet", r.TotalNet)
	if err != nil {
		return nil, err
	}

	m := movement.NewExpense(accountID, r.Date, r.Description, totalNet)
	applyBase(&m.Base, r.Date, r.Description, r.Estado, r.Vouchers)

	if m.CategoryID, err = ParseOptionalID("categoryId", r.CategoryID); err != nil {
		return nil, err
	}
	if m.ProviderID, err = ParseOptionalID("providerId", r.ProviderID); err != nil {
		return nil, err
	}
	m.InvoiceNumber = r.InvoiceNumber

	if m.TotalGross, err = parseMoney("totalGross", r.TotalGross); err != nil {
		return nil, err
	}
	if m.Discounts, err = parseMoney("discounts", r.Discounts); err != nil {
		return nil, err
	}
	if m.Subtotal, err = parseMoney("subtotal", r.Subtotal); err != nil {
		return nil, err
	}
	if m.TaxCharge, err = parseMoney("taxCharge", r.TaxCharge); err != nil {
		return nil, err
	}
	if m.TaxWithholding, err = parseMoney("taxWithholding", r.TaxWithholding); err != nil {
		return nil, err
	}

	for i, itemReq := range r.Items {
		item, err := itemReq.toEntity(i + 1)
		if err != nil {
			return nil, err
		}
		if id := itemReq.ItemID; id == nil || *id == "" {
			m.AddItem(item)
		} else {
			item.LineNo = i + 1
			m.Items = append(m.Items, item)
		}
	}

	return m, nil
}

// ExpenseItemResponse contains one expense line.
type ExpenseItemResponse struct {
	ItemID         string  `json:"itemId"`
	LineNo         int     `json:"lineNo"`
	CategoryID     *string `json:"categoryId,omitempty"`
	ProductName    string  `json:"productName"`
	Quantity       string  `json:"quantity"`
	UnitPrice      string  `json:"unitPrice"`
	Discount       string  `json:"discount"`
	Total          string  `json:"total"`
	TaxCharge      string  `json:"taxCharge"`
	TaxWithholding string  `json:"taxWithholding"`
}

// ExpenseResponse contains expense fields with its items.
type ExpenseResponse struct {
	MovementBaseResponse

	AccountID     string  `json:"accountId"`
	TotalNet      string  `json:"totalNet"`
	CategoryID    *string `json:"categoryId,omitempty"`
	ProviderID    *string `json:"providerId,omitempty"`
	InvoiceNumber string  `json:"invoiceNumber,omitempty"`

	TotalGross     string `json:"totalGross"`
	Discounts      string `json:"discounts"`
	Subtotal       string `json:"subtotal"`
	TaxCharge      string `json:"taxCharge"`
	TaxWithholding string `json:"taxWithholding"`

	Items []ExpenseItemResponse `json:"items"`
}

// FromExpense creates ExpenseResponse from the entity.
func FromExpense(m *movement.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		MovementBaseResponse: fromMovementBase(m.Base),
		AccountID:            m.AccountID.String(),
		TotalNet:             m.TotalNet.String(),
		InvoiceNumber:        m.InvoiceNumber,
		TotalGross:           m.TotalGross.String(),
		Discounts:            m.Discounts.String(),
		Subtotal:             m.Subtotal.String(),
		TaxCharge:            m.TaxCharge.String(),
		TaxWithholding:       m.TaxWithholding.String(),
		Items:                make([]ExpenseItemResponse, 0, len(m.Items)),
	}
	if m.CategoryID != nil {
		s := m.CategoryID.String()
		resp.CategoryID = &s
	}
	if m.ProviderID != nil {
		s := m.ProviderID.String()
		resp.ProviderID = &s
	}
	for _, item := range m.Items {
		itemResp := ExpenseItemResponse{
			ItemID:         item.ItemID.String(),
			LineNo:         item.LineNo,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity.String(),
			UnitPrice:      item.UnitPrice.String(),
			Discount:       item.Discount.String(),
			Total:          item.Total.String(),
			TaxCharge:      item.TaxCharge.String(),
			TaxWithholding: item.TaxWithholding.String(),
		}
		if item.CategoryID != nil {
			s := item.CategoryID.String()
			itemResp.CategoryID = &s
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

// --- Transfer ---

// TransferRequest carries the full transfer payload. Used for both create
// and update; updates replace the stored row.
type TransferRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
	Estado      string    `json:"estado"`
	Vouchers    []string  `json:"vouchers"`

	FromAccountID string `json:"fromAccountId" binding:"required"`
	ToAccountID   string `json:"toAccountId" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
}

// ToEntity maps the request to a new Transfer.
func (r TransferRequest) ToEntity() (*movement.Transfer, error) {
	fromID, err := ParseID("fromAccountId", r.FromAccountID)
	if err != nil {
		return nil, err
	}
	toID, err := ParseID("toAccountId", r.ToAccountID)
	if err != nil {
		return nil, err
	}
	amount, err := parseMoney("amount", r.Amount)
	if err != nil {
		return nil, err
	}

	m := movement.NewTransfer(fromID, toID, r.Date, r.Description, amount)
	applyBase(&m.Base, r.Date, r.Description, r.Estado, r.Vouchers)
	return m, nil
}

// TransferResponse contains transfer fields.
type TransferResponse struct {
	MovementBaseResponse

	FromAccountID string `json:"fromAccountId"`
	ToAccountID   string `json:"toAccountId"`
	Amount        string `json:"amount"`
}

// FromTransfer creates TransferResponse from the entity.
func FromTransfer(m *movement.Transfer) TransferResponse {
	return TransferResponse{
		MovementBaseResponse: fromMovementBase(m.Base),
		FromAccountID:        m.FromAccountID.String(),
		ToAccountID:          m.ToAccountID.String(),
		Amount:               m.Amount.String(),
	}
}

// --- Vouchers ---

// MutateVouchersRequest applies one action to a movement's voucher set.
type MutateVouchersRequest struct {
	Action   string   `json:"action" binding:"required"`
	Vouchers []string `json:"vouchers"`
}

// VouchersResponse returns the updated voucher collection.
type VouchersResponse struct {
	MovementID string   `json:"movementId"`
	Vouchers   []string `json:"vouchers"`
}

// --- Import ---

// ImportResponse summarizes a committed bulk import.
type ImportResponse struct {
	Rows      int `json:"rows"`
	Incomes   int `json:"incomes"`
	Expenses  int `json:"expenses"`
	Transfers int `json:"transfers"`
}
