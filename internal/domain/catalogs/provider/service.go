package provider

import (
	"cajalibro/internal/core/tx"
	"cajalibro/internal/domain"
)

// Repository defines the interface for Provider persistence.
type Repository interface {
	domain.CatalogRepository[*Provider]
}

// Service provides business logic for the Provider catalog.
type Service struct {
	*domain.CatalogService[*Provider]
}

// NewService creates a new Provider service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Provider]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "provider",
		}),
	}
}
