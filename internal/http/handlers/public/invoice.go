package public

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateInvoice 访客下单开票
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req service.InvoiceCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	invoice, err := h.InvoiceService.Create(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrInvoiceEmpty):
			respondError(c, response.CodeBadRequest, "invoice must contain at least one item", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrProductInactive):
			respondError(c, response.CodeBadRequest, "product is not available", nil)
		default:
			respondError(c, response.CodeInternal, "invoice create failed", err)
		}
		return
	}

	response.Success(c, invoice)
}

// GetInvoiceByNo 按账单号查询账单
func (h *Handler) GetInvoiceByNo(c *gin.Context) {
	invoiceNo := strings.TrimSpace(c.Param("invoice_no"))
	if invoiceNo == "" {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	invoice, err := h.InvoiceService.GetByInvoiceNo(invoiceNo)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "invoice not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "invoice fetch failed", err)
		return
	}

	response.Success(c, invoice)
}
