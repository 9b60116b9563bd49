package dto

import (
	"cajalibro/internal/domain/catalogs/cashier"
	"cajalibro/internal/domain/catalogs/category"
	"cajalibro/internal/domain/catalogs/provider"
)

// --- Category ---

// CategoryResponse contains category fields.
type CategoryResponse struct {
	BaseResponse
	Name    string  `json:"name"`
	Comment *string `json:"comment,omitempty"`
}

// FromCategory creates CategoryResponse from the entity.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		BaseResponse: FromBaseEntity(c.BaseEntity),
		Name:         c.Name,
		Comment:      c.Comment,
	}
}

// CreateCategoryRequest for creating categories.
type CreateCategoryRequest struct {
	Name    string  `json:"name" binding:"required"`
	Comment *string `json:"comment"`
}

// ToEntity maps the request to a new Category.
func (r CreateCategoryRequest) ToEntity() *category.Category {
	c := category.New(r.Name)
	c.Comment = r.Comment
	return c
}

// UpdateCategoryRequest for updating categories.
type UpdateCategoryRequest struct {
	Name    *string `json:"name"`
	Comment *string `json:"comment"`
}

// ApplyTo applies non-nil fields to an existing Category.
func (r UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Comment != nil {
		c.Comment = r.Comment
	}
}

// --- Provider ---

// ProviderResponse contains provider fields.
type ProviderResponse struct {
	BaseResponse
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// FromProvider creates ProviderResponse from the entity.
func FromProvider(p *provider.Provider) ProviderResponse {
	return ProviderResponse{
		BaseResponse: FromBaseEntity(p.BaseEntity),
		Name:         p.Name,
		Phone:        p.Phone,
		Email:        p.Email,
	}
}

// CreateProviderRequest for creating providers.
type CreateProviderRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// ToEntity maps the request to a new Provider.
func (r CreateProviderRequest) ToEntity() *provider.Provider {
	p := provider.New(r.Name)
	p.Phone = r.Phone
	p.Email = r.Email
	return p
}

// UpdateProviderRequest for updating providers.
type UpdateProviderRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// ApplyTo applies non-nil fields to an existing Provider.
func (r UpdateProviderRequest) ApplyTo(p *provider.Provider) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Phone != nil {
		p.Phone = r.Phone
	}
	if r.Email != nil {
		p.Email = r.Email
	}
}

// --- Cashier ---

// CashierResponse contains cashier fields.
type CashierResponse struct {
	BaseResponse
	Name     string  `json:"name"`
	Document *string `json:"document,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// FromCashier creates CashierResponse from the entity.
func FromCashier(c *cashier.Cashier) CashierResponse {
	return CashierResponse{
		BaseResponse: FromBaseEntity(c.BaseEntity),
		Name:         c.Name,
		Document:     c.Document,
		Phone:        c.Phone,
	}
}

// CreateCashierRequest for creating cashiers.
type CreateCashierRequest struct {
	Name     string  `json:"name" binding:"required"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
}

// ToEntity maps the request to a new Cashier.
func (r CreateCashierRequest) ToEntity() *cashier.Cashier {
	c := cashier.New(r.Name)
	c.Document = r.Document
	c.Phone = r.Phone
	return c
}

// UpdateCashierRequest for updating cashiers.
type UpdateCashierRequest struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
}

// ApplyTo applies non-nil fields to an existing Cashier.
func (r UpdateCashierRequest) ApplyTo(c *cashier.Cashier) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Document != nil {
		c.Document = r.Document
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
}
