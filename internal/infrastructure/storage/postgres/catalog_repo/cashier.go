package catalog_repo

import (
	"cajalibro/internal/domain/catalogs/cashier"
	"cajalibro/internal/infrastructure/storage/postgres"
)

const cashiersTable = "cashiers"

// CashierRepo implements cashier.Repository.
type CashierRepo struct {
	*BaseCatalogRepo[*cashier.Cashier]
}

// NewCashierRepo creates a new cashier repository.
func NewCashierRepo(txm *postgres.TxManager) *CashierRepo {
	return &CashierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*cashier.Cashier](
			txm,
			cashiersTable,
			postgres.ExtractDBColumns[cashier.Cashier](),
		),
	}
}

var _ cashier.Repository = (*CashierRepo)(nil)
