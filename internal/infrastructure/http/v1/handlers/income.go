package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// IncomeHandler provides HTTP handlers for income movements.
type IncomeHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewIncomeHandler creates a new income handler.
func NewIncomeHandler(base *BaseHandler, service *movement.Service) *IncomeHandler {
	return &IncomeHandler{BaseHandler: base, service: service}
}

// List handles GET /movements/incomes.
func (h *IncomeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.parseMovementFilter(c)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter parameters"))
		return
	}

	result, err := h.service.ListIncomes(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, m := range result.Items {
		items[i] = dto.FromIncome(m)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /movements/incomes/:id.
func (h *IncomeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	m, err := h.service.GetIncome(ctx, movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromIncome(m))
}

// Create handles POST /movements/incomes.
func (h *IncomeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IncomeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateIncome(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromIncome(m))
}

// Update handles PUT /movements/incomes/:id. The payload replaces the
// stored row; the balance delta is computed against the stored state.
func (h *IncomeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.IncomeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	m.ID = movementID

	if err := h.service.UpdateIncome(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromIncome(m))
}

// Delete handles DELETE /movements/incomes/:id.
func (h *IncomeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.DeleteIncome(ctx, movementID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
