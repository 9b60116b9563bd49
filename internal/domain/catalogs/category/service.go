package category

import (
	"cajalibro/internal/core/tx"
	"cajalibro/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]
}

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "category",
		}),
	}
}
