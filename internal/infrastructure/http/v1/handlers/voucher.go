package handlers

import (
	"github.com/gin-gonic/gin"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// VoucherHandler mutates the voucher collection of any movement kind. The
// movement is located by id across the three movement tables.
type VoucherHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewVoucherHandler creates a new voucher handler.
func NewVoucherHandler(base *BaseHandler, service *movement.Service) *VoucherHandler {
	return &VoucherHandler{BaseHandler: base, service: service}
}

// Mutate handles POST /movements/vouchers/:id.
func (h *VoucherHandler) Mutate(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.MutateVouchersRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.MutateVouchers(ctx, movementID, movement.VoucherAction(req.Action), req.Vouchers)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.VouchersResponse{
		MovementID: movementID.String(),
		Vouchers:   updated,
	})
}
