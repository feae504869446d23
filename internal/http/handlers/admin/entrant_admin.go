package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/repository"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

func parseEntrantListFilter(c *gin.Context) repository.EntrantListFilter {
	page, pageSize := parsePageQuery(c)
	filter := repository.EntrantListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      strings.TrimSpace(c.Query("search")),
		CountryCode: strings.ToUpper(strings.TrimSpace(c.Query("country_code"))),
	}
	if raw := strings.TrimSpace(c.Query("confirmed")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Confirmed = &v
		}
	}
	if raw := strings.TrimSpace(c.Query("is_returning")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsReturning = &v
		}
	}
	if raw := strings.TrimSpace(c.Query("vendor_id")); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.VendorID = uint(v)
		}
	}
	if raw := strings.TrimSpace(c.Query("min_stars")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			filter.MinStars = v
		}
	}
	return filter
}

// GetEntrants 获取报名用户列表
func (h *Handler) GetEntrants(c *gin.Context) {
	filter := parseEntrantListFilter(c)

	entrants, total, err := h.EntrantService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "entrant fetch failed", err)
		return
	}

	response.SuccessWithPage(c, entrants, buildPagination(filter.Page, filter.PageSize, total))
}

// GetEntrant 获取报名用户详情
func (h *Handler) GetEntrant(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	entrant, err := h.EntrantService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "entrant not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "entrant fetch failed", err)
		return
	}

	response.Success(c, entrant)
}

// UpdateEntrant 更新报名用户
func (h *Handler) UpdateEntrant(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.EntrantUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	entrant, err := h.EntrantService.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "entrant not found", nil)
		case errors.Is(err, service.ErrDrawCriteriaInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "entrant update failed", err)
		}
		return
	}

	response.Success(c, entrant)
}

// BatchUpdateEntrantsRequest 批量更新报名用户请求
type BatchUpdateEntrantsRequest struct {
	IDs         []uint `json:"ids" binding:"required"`
	Confirmed   *bool  `json:"confirmed"`
	IsReturning *bool  `json:"is_returning"`
}

// BatchUpdateEntrants 批量更新报名用户
func (h *Handler) BatchUpdateEntrants(c *gin.Context) {
	var req BatchUpdateEntrantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if len(req.IDs) == 0 {
		respondError(c, response.CodeBadRequest, "ids must not be empty", nil)
		return
	}

	updated, err := h.EntrantService.BatchUpdate(req.IDs, req.Confirmed, req.IsReturning)
	if err != nil {
		respondError(c, response.CodeInternal, "entrant batch update failed", err)
		return
	}

	response.Success(c, gin.H{"updated": updated})
}

// ExportEntrants 导出报名用户 CSV
func (h *Handler) ExportEntrants(c *gin.Context) {
	filter := parseEntrantListFilter(c)

	data, err := h.EntrantService.ExportCSV(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "entrant export failed", err)
		return
	}

	filename := fmt.Sprintf("entrants_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
