package cashier

import (
	"cajalibro/internal/core/tx"
	"cajalibro/internal/domain"
)

// Repository defines the interface for Cashier persistence.
type Repository interface {
	domain.CatalogRepository[*Cashier]
}

// Service provides business logic for the Cashier catalog.
type Service struct {
	*domain.CatalogService[*Cashier]
}

// NewService creates a new Cashier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Cashier]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "cashier",
		}),
	}
}
