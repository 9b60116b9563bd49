package handlers

import (
	"cajalibro/internal/domain/catalogs/cashier"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// CashierHTTPHandler is a type alias to shorten signatures.
type CashierHTTPHandler = CatalogHandler[
	*cashier.Cashier,
	dto.CreateCashierRequest,
	dto.UpdateCashierRequest,
]

// NewCashierHandler creates the configured generic handler.
func NewCashierHandler(
	base *BaseHandler,
	service *cashier.Service,
) *CashierHTTPHandler {
	config := CatalogHandlerConfig[
		*cashier.Cashier,
		dto.CreateCashierRequest,
		dto.UpdateCashierRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "cashier",

		MapCreateDTO: func(req dto.CreateCashierRequest) *cashier.Cashier {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCashierRequest, existing *cashier.Cashier) *cashier.Cashier {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *cashier.Cashier) any {
			return dto.FromCashier(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
