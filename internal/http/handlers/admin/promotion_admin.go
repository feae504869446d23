package admin

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPromotions 获取抽奖活动列表
func (h *Handler) GetPromotions(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	status := strings.TrimSpace(c.Query("status"))

	promotions, total, err := h.PromotionService.List(page, pageSize, status)
	if err != nil {
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	response.SuccessWithPage(c, promotions, buildPagination(page, pageSize, total))
}

// GetPromotion 获取抽奖活动详情
func (h *Handler) GetPromotion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	promotion, err := h.PromotionService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "promotion not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	response.Success(c, promotion)
}

// CreatePromotion 创建抽奖活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req service.PromotionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	promotion, err := h.PromotionService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrPromotionSlugTaken) {
			respondError(c, response.CodeBadRequest, "promotion slug already in use", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion create failed", err)
		return
	}

	response.Success(c, promotion)
}

// UpdatePromotion 更新抽奖活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.PromotionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	promotion, err := h.PromotionService.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "promotion not found", nil)
		case errors.Is(err, service.ErrPromotionSlugTaken):
			respondError(c, response.CodeBadRequest, "promotion slug already in use", nil)
		default:
			respondError(c, response.CodeInternal, "promotion update failed", err)
		}
		return
	}

	response.Success(c, promotion)
}

// DeletePromotion 删除抽奖活动（软删除）
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.PromotionService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "promotion not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion delete failed", err)
		return
	}

	response.Success(c, nil)
}
