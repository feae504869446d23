package admin

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// DrawCriteriaRequest 开奖筛选条件请求（试算/开奖走 JSON，导出走查询参数）
type DrawCriteriaRequest struct {
	Confirmed   *bool  `json:"confirmed" form:"confirmed"`
	MinStars    int    `json:"min_stars" form:"min_stars"`
	Returning   *bool  `json:"returning" form:"returning"`
	CountryCode string `json:"country_code" form:"country_code"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
	PromotionID uint   `json:"promotion_id" form:"promotion_id"`
}

func (r DrawCriteriaRequest) toCriteria() service.DrawCriteria {
	return service.DrawCriteria{
		Confirmed:   r.Confirmed,
		MinStars:    r.MinStars,
		Returning:   r.Returning,
		CountryCode: r.CountryCode,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		PromotionID: r.PromotionID,
	}
}

// SimulateDraw 试算开奖（只读，不落库）
func (h *Handler) SimulateDraw(c *gin.Context) {
	var req DrawCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.DrawService.Simulate(req.toCriteria())
	if err != nil {
		if errors.Is(err, service.ErrDrawCriteriaInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "draw simulate failed", err)
		return
	}

	response.Success(c, result)
}

// CommitDraw 执行开奖
func (h *Handler) CommitDraw(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req DrawCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.DrawService.Commit(req.toCriteria(), adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDrawCriteriaInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNoEligibleCandidates):
			respondError(c, response.CodeBadRequest, "no eligible entrants for the given criteria", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "promotion not found", nil)
		default:
			respondError(c, response.CodeInternal, "draw commit failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_draw_committed", "admin_id", adminID, "draw_id", result.DrawID)
	response.Success(c, result)
}

// GetDrawHistory 获取最近开奖记录
func (h *Handler) GetDrawHistory(c *gin.Context) {
	records, err := h.DrawService.History()
	if err != nil {
		respondError(c, response.CodeInternal, "draw history fetch failed", err)
		return
	}
	response.Success(c, records)
}

// GetDrawRecord 获取开奖记录详情
func (h *Handler) GetDrawRecord(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	record, err := h.DrawService.GetRecord(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "draw record not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "draw record fetch failed", err)
		return
	}

	response.Success(c, record)
}

// ExportDrawCandidates 导出符合条件的候选名单 CSV
// 条件通过查询参数传入，便于浏览器直接下载。
func (h *Handler) ExportDrawCandidates(c *gin.Context) {
	var req DrawCriteriaRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	data, err := h.DrawService.ExportCSV(req.toCriteria())
	if err != nil {
		if errors.Is(err, service.ErrDrawCriteriaInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "draw export failed", err)
		return
	}

	filename := fmt.Sprintf("draw_candidates_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
