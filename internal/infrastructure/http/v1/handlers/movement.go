package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"cajalibro/internal/core/id"
	"cajalibro/internal/domain"
	"cajalibro/internal/domain/ledger/movement"
)

// parseMovementFilter reads the shared movement list filters from query
// parameters.
func (h *BaseHandler) parseMovementFilter(c *gin.Context) (movement.ListFilter, error) {
	filter := movement.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if accountID := c.Query("accountId"); accountID != "" {
		parsed, err := id.Parse(accountID)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &parsed
	}
	if estado := c.Query("estado"); estado != "" {
		filter.Estado = &estado
	}
	if from := c.Query("dateFrom"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("dateTo"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &parsed
	}

	return filter, nil
}
