package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 报名请求
type SignupRequest struct {
	Email       string `json:"email" binding:"required"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// Signup 访客报名
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if h.CaptchaService != nil {
		payload := service.CaptchaVerifyPayload{CaptchaID: req.CaptchaID, CaptchaCode: req.CaptchaCode}
		if captchaErr := h.CaptchaService.Verify(payload); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "captcha is required", nil)
				return
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "captcha verification failed", nil)
				return
			default:
				respondError(c, response.CodeInternal, "captcha verification failed", captchaErr)
				return
			}
		}
	}

	entrant, err := h.EntrantService.Signup(service.SignupInput{
		Email:       req.Email,
		Name:        req.Name,
		CountryCode: req.CountryCode,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
	}, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, response.CodeBadRequest, "email already registered", nil)
		default:
			respondError(c, response.CodeInternal, "signup failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"id":        entrant.ID,
		"email":     entrant.Email,
		"confirmed": entrant.Confirmed,
	})
}

// ConfirmSignup 确认报名邮箱（链接点击后重定向到前端页面）
func (h *Handler) ConfirmSignup(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	redirectPath := strings.TrimSpace(h.Config.Giveaway.ConfirmRedirectPath)
	if redirectPath == "" {
		redirectPath = "/confirmed"
	}
	baseURL := strings.TrimRight(strings.TrimSpace(h.Config.Site.BaseURL), "/")

	if token == "" {
		c.Redirect(http.StatusFound, baseURL+redirectPath+"?status=invalid")
		return
	}

	entrant, err := h.EntrantService.Confirm(token)
	if err != nil {
		if errors.Is(err, service.ErrConfirmTokenInvalid) {
			c.Redirect(http.StatusFound, baseURL+redirectPath+"?status=invalid")
			return
		}
		requestLog(c).Errorw("signup_confirm_failed", "error", err)
		c.Redirect(http.StatusFound, baseURL+redirectPath+"?status=error")
		return
	}

	requestLog(c).Infow("signup_confirmed", "entrant_id", entrant.ID)
	c.Redirect(http.StatusFound, baseURL+redirectPath+"?status=ok")
}
