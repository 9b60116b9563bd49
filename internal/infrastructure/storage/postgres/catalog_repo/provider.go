package catalog_repo

import (
	"cajalibro/internal/domain/catalogs/provider"
	"cajalibro/internal/infrastructure/storage/postgres"
)

const providersTable = "providers"

// ProviderRepo implements provider.Repository.
type ProviderRepo struct {
	*BaseCatalogRepo[*provider.Provider]
}

// NewProviderRepo creates a new provider repository.
func NewProviderRepo(txm *postgres.TxManager) *ProviderRepo {
	return &ProviderRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*provider.Provider](
			txm,
			providersTable,
			postgres.ExtractDBColumns[provider.Provider](),
		),
	}
}

var _ provider.Repository = (*ProviderRepo)(nil)
