package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// TransferHandler provides HTTP handlers for transfer movements.
type TransferHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *movement.Service) *TransferHandler {
	return &TransferHandler{BaseHandler: base, service: service}
}

// List handles GET /movements/transfers. The account filter matches either
// leg.
func (h *TransferHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.parseMovementFilter(c)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter parameters"))
		return
	}

	result, err := h.service.ListTransfers(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, m := range result.Items {
		items[i] = dto.FromTransfer(m)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /movements/transfers/:id.
func (h *TransferHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	m, err := h.service.GetTransfer(ctx, movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTransfer(m))
}

// Create handles POST /movements/transfers.
func (h *TransferHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateTransfer(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromTransfer(m))
}

// Update handles PUT /movements/transfers/:id.
func (h *TransferHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	m.ID = movementID

	if err := h.service.UpdateTransfer(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTransfer(m))
}

// Delete handles DELETE /movements/transfers/:id.
func (h *TransferHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.DeleteTransfer(ctx, movementID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
