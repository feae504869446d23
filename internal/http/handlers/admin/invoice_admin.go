package admin

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/repository"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// GetInvoices 获取账单列表
func (h *Handler) GetInvoices(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.InvoiceListFilter{
		Page:      page,
		PageSize:  pageSize,
		Email:     strings.TrimSpace(c.Query("email")),
		InvoiceNo: strings.TrimSpace(c.Query("invoice_no")),
		Status:    strings.TrimSpace(c.Query("status")),
	}

	invoices, total, err := h.InvoiceService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "invoice fetch failed", err)
		return
	}

	response.SuccessWithPage(c, invoices, buildPagination(page, pageSize, total))
}

// GetInvoice 获取账单详情
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.InvoiceService.Get(id)
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

// UpdateInvoiceStatusRequest 账单状态流转请求
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateInvoiceStatus 流转账单状态
func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	invoice, err := h.InvoiceService.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "invoice not found", nil)
		case errors.Is(err, service.ErrInvoiceStatusInvalid):
			respondError(c, response.CodeBadRequest, "invalid invoice status transition", nil)
		default:
			respondError(c, response.CodeInternal, "invoice update failed", err)
		}
		return
	}

	response.Success(c, invoice)
}
