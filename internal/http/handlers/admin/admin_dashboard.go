package admin

import (
	"strconv"

	"github.com/staylucky/internal/http/response"

	"github.com/gin-gonic/gin"
)

func parseDashboardDays(c *gin.Context) int {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	return days
}

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	data, err := h.DashboardService.Overview(parseDashboardDays(c))
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard fetch failed", err)
		return
	}

	response.Success(c, data)
}

// GetDashboardTrends 获取后台报名趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	data, err := h.DashboardService.SignupTrends(parseDashboardDays(c))
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard fetch failed", err)
		return
	}

	response.Success(c, data)
}

// GetDashboardTopVendors 获取后台渠道商排行榜
func (h *Handler) GetDashboardTopVendors(c *gin.Context) {
	data, err := h.DashboardService.TopVendors(parseDashboardDays(c))
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard fetch failed", err)
		return
	}

	response.Success(c, data)
}
