package admin

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

const smtpPasswordMask = "********"

func maskSMTPSetting(setting service.SMTPSetting) service.SMTPSetting {
	if setting.Password != "" {
		setting.Password = smtpPasswordMask
	}
	return setting
}

// GetSMTPSettings 获取 SMTP 配置（脱敏）
func (h *Handler) GetSMTPSettings(c *gin.Context) {
	setting, err := h.SettingService.GetSMTPSetting(h.Config.Email)
	if err != nil {
		respondError(c, response.CodeInternal, "settings fetch failed", err)
		return
	}
	response.Success(c, maskSMTPSetting(setting))
}

// UpdateSMTPSettings 更新 SMTP 配置
func (h *Handler) UpdateSMTPSettings(c *gin.Context) {
	var req service.SMTPSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	// 密码为掩码时保留原值
	if strings.TrimSpace(req.Password) == "" || req.Password == smtpPasswordMask {
		current, err := h.SettingService.GetSMTPSetting(h.Config.Email)
		if err == nil {
			req.Password = current.Password
		}
	}

	setting, err := h.SettingService.UpdateSMTPSetting(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceNotConfigured), errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "settings save failed", err)
		}
		return
	}

	h.Config.Email = *setting.ToEmailConfig()
	if h.EmailService != nil {
		h.EmailService.SetConfig(&h.Config.Email)
	}

	response.Success(c, maskSMTPSetting(setting))
}

// SMTPTestSendRequest SMTP 测试发送请求
type SMTPTestSendRequest struct {
	ToEmail string `json:"to_email" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TestSMTPSettings 测试 SMTP 配置发送
func (h *Handler) TestSMTPSettings(c *gin.Context) {
	var req SMTPTestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	toEmail := strings.TrimSpace(req.ToEmail)
	if toEmail == "" {
		respondError(c, response.CodeBadRequest, "invalid email address", nil)
		return
	}

	setting, err := h.SettingService.GetSMTPSetting(h.Config.Email)
	if err != nil {
		respondError(c, response.CodeInternal, "settings fetch failed", err)
		return
	}

	configForSend := *setting.ToEmailConfig()
	configForSend.Enabled = true
	tempEmailService := service.NewEmailService(&configForSend)

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "SMTP test"
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		body = "This is a test message confirming your SMTP settings work."
	}

	if err := tempEmailService.SendCustomEmail(toEmail, subject, body); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeBadRequest, "email service is not configured", nil)
		case errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "recipient address rejected", nil)
		default:
			respondError(c, response.CodeInternal, "test send failed", err)
		}
		return
	}

	response.Success(c, nil)
}
