package service

import (
	"encoding/json"
	"net/mail"
	"strings"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"
)

// SettingService 设置业务服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetConfig 获取站点配置（合并默认值）
func (s *SettingService) GetConfig(defaults map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	for k, v := range defaults {
		data[k] = v
	}

	setting, err := s.repo.GetByKey(constants.SettingKeySiteConfig)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return data, nil
	}

	for k, v := range setting.ValueJSON {
		data[k] = v
	}
	return data, nil
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	setting, err := s.repo.Upsert(key, value)
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// SMTPSetting SMTP 配置实体
type SMTPSetting struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
	UseTLS   bool   `json:"use_tls"`
	UseSSL   bool   `json:"use_ssl"`
}

// ToEmailConfig 转换为邮件服务配置
func (s SMTPSetting) ToEmailConfig() *config.EmailConfig {
	return &config.EmailConfig{
		Enabled:  s.Enabled,
		Host:     strings.TrimSpace(s.Host),
		Port:     s.Port,
		Username: s.Username,
		Password: s.Password,
		From:     strings.TrimSpace(s.From),
		FromName: strings.TrimSpace(s.FromName),
		UseTLS:   s.UseTLS,
		UseSSL:   s.UseSSL,
	}
}

// GetSMTPSetting 获取 SMTP 设置（缺省回退到文件配置）
func (s *SettingService) GetSMTPSetting(fallback config.EmailConfig) (SMTPSetting, error) {
	setting := SMTPSetting{
		Enabled:  fallback.Enabled,
		Host:     fallback.Host,
		Port:     fallback.Port,
		Username: fallback.Username,
		Password: fallback.Password,
		From:     fallback.From,
		FromName: fallback.FromName,
		UseTLS:   fallback.UseTLS,
		UseSSL:   fallback.UseSSL,
	}

	value, err := s.GetByKey(constants.SettingKeySMTPConfig)
	if err != nil {
		return setting, err
	}
	if value == nil {
		return setting, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return setting, err
	}
	if err := json.Unmarshal(raw, &setting); err != nil {
		return setting, err
	}
	return setting, nil
}

// UpdateSMTPSetting 更新 SMTP 设置
func (s *SettingService) UpdateSMTPSetting(setting SMTPSetting) (SMTPSetting, error) {
	setting.Host = strings.TrimSpace(setting.Host)
	setting.From = strings.TrimSpace(setting.From)
	setting.FromName = strings.TrimSpace(setting.FromName)
	if setting.Enabled {
		if setting.Host == "" || setting.Port <= 0 || setting.Port > 65535 {
			return setting, ErrEmailServiceNotConfigured
		}
		if _, err := mail.ParseAddress(setting.From); err != nil {
			return setting, ErrInvalidEmail
		}
	}

	raw, err := json.Marshal(setting)
	if err != nil {
		return setting, err
	}
	value := make(map[string]interface{})
	if err := json.Unmarshal(raw, &value); err != nil {
		return setting, err
	}

	if _, err := s.Update(constants.SettingKeySMTPConfig, value); err != nil {
		return setting, err
	}
	return setting, nil
}
