package movement

import (
	"context"
	"errors"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain"
)

// fakeLedger is an in-memory stand-in for the repository and the balance
// mutator. The fake transaction manager snapshots it on the outermost
// transaction and restores it on error, mirroring rollback.
type fakeLedger struct {
	balances  map[id.ID]types.Money
	incomes   map[id.ID]*Income
	expenses  map[id.ID]*Expense
	items     map[id.ID][]ExpenseItem
	transfers map[id.ID]*Transfer

	// forced failures
	failExpenseInsert bool

	deltaCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances:  make(map[id.ID]types.Money),
		incomes:   make(map[id.ID]*Income),
		expenses:  make(map[id.ID]*Expense),
		items:     make(map[id.ID][]ExpenseItem),
		transfers: make(map[id.ID]*Transfer),
	}
}

type ledgerSnapshot struct {
	balances  map[id.ID]types.Money
	incomes   map[id.ID]*Income
	expenses  map[id.ID]*Expense
	items     map[id.ID][]ExpenseItem
	transfers map[id.ID]*Transfer
}

func (f *fakeLedger) snapshot() ledgerSnapshot {
	s := ledgerSnapshot{
		balances:  make(map[id.ID]types.Money, len(f.balances)),
		incomes:   make(map[id.ID]*Income, len(f.incomes)),
		expenses:  make(map[id.ID]*Expense, len(f.expenses)),
		items:     make(map[id.ID][]ExpenseItem, len(f.items)),
		transfers: make(map[id.ID]*Transfer, len(f.transfers)),
	}
	for k, v := range f.balances {
		s.balances[k] = v
	}
	for k, v := range f.incomes {
		cp := *v
		s.incomes[k] = &cp
	}
	for k, v := range f.expenses {
		cp := *v
		s.expenses[k] = &cp
	}
	for k, v := range f.items {
		cp := make([]ExpenseItem, len(v))
		copy(cp, v)
		s.items[k] = cp
	}
	for k, v := range f.transfers {
		cp := *v
		s.transfers[k] = &cp
	}
	return s
}

func (f *fakeLedger) restore(s ledgerSnapshot) {
	f.balances = s.balances
	f.incomes = s.incomes
	f.expenses = s.expenses
	f.items = s.items
	f.transfers = s.transfers
}

// --- BalanceMutator ---

func (f *fakeLedger) ApplyDelta(ctx context.Context, accountID id.ID, delta types.Money) (types.Money, error) {
	balance, ok := f.balances[accountID]
	if !ok {
		return types.Zero(), apperror.NewNotFound("account", accountID.String())
	}
	if delta.IsZero() {
		return balance, nil
	}
	f.deltaCalls++
	newBalance := balance.Add(delta)
	if newBalance.IsNegative() {
		return types.Zero(), apperror.NewInsufficientBalance(
			accountID.String(), balance.String(), delta.String())
	}
	f.balances[accountID] = newBalance
	return newBalance, nil
}

func (f *fakeLedger) Exists(ctx context.Context, accountID id.ID) (bool, error) {
	_, ok := f.balances[accountID]
	return ok, nil
}

// --- Repository ---

func (f *fakeLedger) CreateIncome(ctx context.Context, m *Income) error {
	cp := *m
	f.incomes[m.ID] = &cp
	return nil
}

func (f *fakeLedger) GetIncome(ctx context.Context, movementID id.ID) (*Income, error) {
	m, ok := f.incomes[movementID]
	if !ok {
		return nil, apperror.NewNotFound("income", movementID.String())
	}
	cp := *m
	return &cp, nil
}

func (f *fakeLedger) UpdateIncome(ctx context.Context, m *Income) error {
	if _, ok := f.incomes[m.ID]; !ok {
		return apperror.NewNotFound("income", m.ID.String())
	}
	cp := *m
	f.incomes[m.ID] = &cp
	return nil
}

func (f *fakeLedger) DeleteIncome(ctx context.Context, movementID id.ID) error {
	if _, ok := f.incomes[movementID]; !ok {
		return apperror.NewNotFound("income", movementID.String())
	}
	delete(f.incomes, movementID)
	return nil
}

func (f *fakeLedger) ListIncomes(ctx context.Context, filter ListFilter) (domain.ListResult[*Income], error) {
	result := domain.ListResult[*Income]{}
	for _, m := range f.incomes {
		cp := *m
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (f *fakeLedger) CreateExpense(ctx context.Context, m *Expense) error {
	if f.failExpenseInsert {
		return errors.New("forced insert failure")
	}
	cp := *m
	f.expenses[m.ID] = &cp
	return nil
}

func (f *fakeLedger) GetExpense(ctx context.Context, movementID id.ID) (*Expense, error) {
	m, ok := f.expenses[movementID]
	if !ok {
		return nil, apperror.NewNotFound("expense", movementID.String())
	}
	cp := *m
	return &cp, nil
}

func (f *fakeLedger) UpdateExpense(ctx context.Context, m *Expense) error {
	if _, ok := f.expenses[m.ID]; !ok {
		return apperror.NewNotFound("expense", m.ID.String())
	}
	cp := *m
	f.expenses[m.ID] = &cp
	return nil
}

func (f *fakeLedger) DeleteExpense(ctx context.Context, movementID id.ID) error {
	if _, ok := f.expenses[movementID]; !ok {
		return apperror.NewNotFound("expense", movementID.String())
	}
	delete(f.expenses, movementID)
	return nil
}

func (f *fakeLedger) ListExpenses(ctx context.Context, filter ListFilter) (domain.ListResult[*Expense], error) {
	result := domain.ListResult[*Expense]{}
	for _, m := range f.expenses {
		cp := *m
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (f *fakeLedger) GetItems(ctx context.Context, expenseID id.ID) ([]ExpenseItem, error) {
	items := f.items[expenseID]
	cp := make([]ExpenseItem, len(items))
	copy(cp, items)
	return cp, nil
}

func (f *fakeLedger) ReconcileItems(ctx context.Context, expenseID id.ID, desired []ExpenseItem) error {
	cp := make([]ExpenseItem, len(desired))
	copy(cp, desired)
	for i := range cp {
		if id.IsNil(cp[i].ItemID) {
			cp[i].ItemID = id.New()
		}
	}
	f.items[expenseID] = cp
	return nil
}

func (f *fakeLedger) DeleteItems(ctx context.Context, expenseID id.ID) error {
	delete(f.items, expenseID)
	return nil
}

func (f *fakeLedger) CreateTransfer(ctx context.Context, m *Transfer) error {
	cp := *m
	f.transfers[m.ID] = &cp
	return nil
}

func (f *fakeLedger) GetTransfer(ctx context.Context, movementID id.ID) (*Transfer, error) {
	m, ok := f.transfers[movementID]
	if !ok {
		return nil, apperror.NewNotFound("transfer", movementID.String())
	}
	cp := *m
	return &cp, nil
}

func (f *fakeLedger) UpdateTransfer(ctx context.Context, m *Transfer) error {
	if _, ok := f.transfers[m.ID]; !ok {
		return apperror.NewNotFound("transfer", m.ID.String())
	}
	cp := *m
	f.transfers[m.ID] = &cp
	return nil
}

func (f *fakeLedger) DeleteTransfer(ctx context.Context, movementID id.ID) error {
	if _, ok := f.transfers[movementID]; !ok {
		return apperror.NewNotFound("transfer", movementID.String())
	}
	delete(f.transfers, movementID)
	return nil
}

func (f *fakeLedger) ListTransfers(ctx context.Context, filter ListFilter) (domain.ListResult[*Transfer], error) {
	result := domain.ListResult[*Transfer]{}
	for _, m := range f.transfers {
		cp := *m
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (f *fakeLedger) GetVouchers(ctx context.Context, movementID id.ID) (Kind, []string, error) {
	if m, ok := f.incomes[movementID]; ok {
		return KindIncome, append([]string(nil), m.Vouchers...), nil
	}
	if m, ok := f.expenses[movementID]; ok {
		return KindExpense, append([]string(nil), m.Vouchers...), nil
	}
	if m, ok := f.transfers[movementID]; ok {
		return KindTransfer, append([]string(nil), m.Vouchers...), nil
	}
	return "", nil, apperror.NewNotFound("movement", movementID.String())
}

func (f *fakeLedger) SetVouchers(ctx context.Context, kind Kind, movementID id.ID, vouchers []string) error {
	cp := append([]string(nil), vouchers...)
	switch kind {
	case KindIncome:
		if m, ok := f.incomes[movementID]; ok {
			m.Vouchers = cp
			return nil
		}
	case KindExpense:
		if m, ok := f.expenses[movementID]; ok {
			m.Vouchers = cp
			return nil
		}
	case KindTransfer:
		if m, ok := f.transfers[movementID]; ok {
			m.Vouchers = cp
			return nil
		}
	}
	return apperror.NewNotFound("movement", movementID.String())
}

var _ Repository = (*fakeLedger)(nil)
var _ BalanceMutator = (*fakeLedger)(nil)

// fakeTxManager snapshots the ledger on the outermost call and restores it
// when fn errors. Nested calls join the outer transaction, matching the
// nested-reuse contract.
type fakeTxManager struct {
	ledger *fakeLedger
	depth  int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.depth > 0 {
		m.depth++
		defer func() { m.depth-- }()
		return fn(ctx)
	}

	snap := m.ledger.snapshot()
	m.depth++
	err := fn(ctx)
	m.depth--
	if err != nil {
		m.ledger.restore(snap)
	}
	return err
}

// fakeRefs is an existence set for catalog references.
type fakeRefs map[id.ID]bool

func (f fakeRefs) Exists(ctx context.Context, refID id.ID) (bool, error) {
	return f[refID], nil
}

// testHarness bundles the fakes behind a ready movement service.
type testHarness struct {
	ledger     *fakeLedger
	categories fakeRefs
	providers  fakeRefs
	cashiers   fakeRefs
	service    *Service
}

func newTestHarness() *testHarness {
	ledger := newFakeLedger()
	categories := fakeRefs{}
	providers := fakeRefs{}
	cashiers := fakeRefs{}
	txm := &fakeTxManager{ledger: ledger}

	return &testHarness{
		ledger:     ledger,
		categories: categories,
		providers:  providers,
		cashiers:   cashiers,
		service:    NewService(ledger, ledger, categories, providers, cashiers, txm),
	}
}

func (h *testHarness) addAccount(balance string) id.ID {
	accountID := id.New()
	h.ledger.balances[accountID] = types.MustMoney(balance)
	return accountID
}
