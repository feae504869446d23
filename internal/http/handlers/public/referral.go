package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// ReferralRedirect 渠道商推广链接跳转
// 记录点击后 302 跳转到渠道商配置的目标地址。
func (h *Handler) ReferralRedirect(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	vendor, err := h.VendorService.TrackClick(code, c.ClientIP(), c.GetHeader("User-Agent"), c.GetHeader("Referer"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrVendorDisabled):
			respondError(c, response.CodeNotFound, "referral link not found", nil)
		default:
			respondError(c, response.CodeInternal, "referral redirect failed", err)
		}
		return
	}

	target := strings.TrimSpace(vendor.TargetURL)
	if target == "" {
		target = strings.TrimRight(strings.TrimSpace(h.Config.Site.BaseURL), "/") + "/"
	}
	c.Redirect(http.StatusFound, target)
}
