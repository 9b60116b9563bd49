package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler provides HTTP handlers for expense movements.
type ExpenseHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(base *BaseHandler, service *movement.Service) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: base, service: service}
}

// List handles GET /movements/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.parseMovementFilter(c)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter parameters"))
		return
	}

	result, err := h.service.ListExpenses(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, m := range result.Items {
		items[i] = dto.FromExpense(m)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /movements/expenses/:id - expense with its items.
func (h *ExpenseHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	m, err := h.service.GetExpense(ctx, movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromExpense(m))
}

// Create handles POST /movements/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateExpense(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromExpense(m))
}

// Update handles PUT /movements/expenses/:id. The payload replaces the
// stored row and its items are reconciled by item id.
func (h *ExpenseHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	m.ID = movementID

	if err := h.service.UpdateExpense(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromExpense(m))
}

// Delete handles DELETE /movements/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.DeleteExpense(ctx, movementID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
