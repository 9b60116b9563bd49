package catalog_repo

import (
	"cajalibro/internal/domain/catalogs/category"
	"cajalibro/internal/infrastructure/storage/postgres"
)

const categoriesTable = "categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*category.Category](
			txm,
			categoriesTable,
			postgres.ExtractDBColumns[category.Category](),
		),
	}
}

var _ category.Repository = (*CategoryRepo)(nil)
