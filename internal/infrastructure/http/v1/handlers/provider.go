package handlers

import (
	"cajalibro/internal/domain/catalogs/provider"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// ProviderHTTPHandler is a type alias to shorten signatures.
type ProviderHTTPHandler = CatalogHandler[
	*provider.Provider,
	dto.CreateProviderRequest,
	dto.UpdateProviderRequest,
]

// NewProviderHandler creates the configured generic handler.
func NewProviderHandler(
	base *BaseHandler,
	service *provider.Service,
) *ProviderHTTPHandler {
	config := CatalogHandlerConfig[
		*provider.Provider,
		dto.CreateProviderRequest,
		dto.UpdateProviderRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "provider",

		MapCreateDTO: func(req dto.CreateProviderRequest) *provider.Provider {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateProviderRequest, existing *provider.Provider) *provider.Provider {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *provider.Provider) any {
			return dto.FromProvider(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
