package handlers

import (
	"github.com/gin-gonic/gin"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/domain/ledger/importer"
	"cajalibro/internal/infrastructure/http/v1/dto"
)

// ImportHandler accepts spreadsheet exports and reconciles their rows into
// movements as one all-or-nothing batch.
type ImportHandler struct {
	*BaseHandler
	reconciler *importer.Reconciler
}

// NewImportHandler creates a new import handler.
func NewImportHandler(base *BaseHandler, reconciler *importer.Reconciler) *ImportHandler {
	return &ImportHandler{BaseHandler: base, reconciler: reconciler}
}

// Upload handles POST /movements/import. Expects a multipart form with the
// file under "file".
func (h *ImportHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("field", "file"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewParse("cannot open uploaded file"))
		return
	}
	defer f.Close()

	result, err := h.reconciler.ImportFile(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ImportResponse{
		Rows:      result.Rows,
		Incomes:   result.Incomes,
		Expenses:  result.Expenses,
		Transfers: result.Transfers,
	})
}
