package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/repository"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// GetVendors 获取渠道商列表
func (h *Handler) GetVendors(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.VendorListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	vendors, total, err := h.VendorService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "vendor fetch failed", err)
		return
	}

	response.SuccessWithPage(c, vendors, buildPagination(page, pageSize, total))
}

// GetVendor 获取渠道商详情
func (h *Handler) GetVendor(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.VendorService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "vendor fetch failed", err)
		return
	}

	response.Success(c, vendor)
}

// CreateVendor 创建渠道商
func (h *Handler) CreateVendor(c *gin.Context) {
	var req service.VendorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	vendor, err := h.VendorService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrVendorCodeTaken) {
			respondError(c, response.CodeBadRequest, "vendor code already in use", nil)
			return
		}
		respondError(c, response.CodeInternal, "vendor create failed", err)
		return
	}

	response.Success(c, vendor)
}

// UpdateVendor 更新渠道商
func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.VendorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	vendor, err := h.VendorService.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "vendor not found", nil)
		case errors.Is(err, service.ErrVendorCodeTaken):
			respondError(c, response.CodeBadRequest, "vendor code already in use", nil)
		default:
			respondError(c, response.CodeInternal, "vendor update failed", err)
		}
		return
	}

	response.Success(c, vendor)
}

// DeleteVendor 删除渠道商（软删除）
func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.VendorService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "vendor delete failed", err)
		return
	}

	response.Success(c, nil)
}

// GetVendorSummary 获取渠道商佣金汇总
func (h *Handler) GetVendorSummary(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.VendorService.AggregateCommissions(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "vendor summary failed", err)
		return
	}

	response.Success(c, summary)
}

// GetCommissions 获取佣金记录列表
func (h *Handler) GetCommissions(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Source:   strings.TrimSpace(c.Query("source")),
	}
	if raw := strings.TrimSpace(c.Query("vendor_id")); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.VendorID = uint(v)
		}
	}

	records, total, err := h.VendorService.ListCommissions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "commission fetch failed", err)
		return
	}

	response.SuccessWithPage(c, records, buildPagination(page, pageSize, total))
}

// CreateCommission 手工录入佣金
func (h *Handler) CreateCommission(c *gin.Context) {
	var req service.CommissionCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	record, err := h.VendorService.CreateCommission(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "vendor not found", nil)
		case errors.Is(err, service.ErrCommissionAmountInvalid):
			respondError(c, response.CodeBadRequest, "commission amount must not be negative", nil)
		default:
			respondError(c, response.CodeInternal, "commission create failed", err)
		}
		return
	}

	response.Success(c, record)
}

// UpdateCommissionStatusRequest 佣金状态流转请求
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateCommissionStatus 流转佣金状态
func (h *Handler) UpdateCommissionStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCommissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	record, err := h.VendorService.UpdateCommissionStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "commission not found", nil)
		case errors.Is(err, service.ErrCommissionStatusInvalid):
			respondError(c, response.CodeBadRequest, "invalid commission status transition", nil)
		default:
			respondError(c, response.CodeInternal, "commission update failed", err)
		}
		return
	}

	response.Success(c, record)
}
