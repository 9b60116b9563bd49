package domain

import (
	"context"

	"cajalibro/internal/core/entity"
	"cajalibro/internal/core/id"
	"cajalibro/internal/core/tx"
	"cajalibro/pkg/logger"
)

// CatalogServiceConfig configures a generic catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// CatalogService provides common CRUD for reference-data catalogs
// (categories, providers, cashiers). These records have no balance side
// effects; the ledger engine only consumes their existence checks and the
// per-batch name index.
type CatalogService[T entity.Validatable] struct {
	repo       CatalogRepository[T]
	txManager  tx.Manager
	entityName string
}

// NewCatalogService creates a catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		entityName: cfg.EntityName,
	}
}

// Create validates and inserts a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, e)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "catalog entity created", "entity", s.entityName)
	return nil
}

// GetByID retrieves an entity by id.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return s.repo.GetByID(ctx, entityID)
}

// Update validates and saves an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, e)
	})
}

// Delete removes an entity. A foreign-key violation from movements that
// reference it surfaces as a conflict.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, entityID)
	})
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks entity existence, used by movement validation.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}

// NameIndex returns the case-insensitive name lookup table for import
// resolution.
func (s *CatalogService[T]) NameIndex(ctx context.Context) (map[string]id.ID, error) {
	return s.repo.NameIndex(ctx)
}
