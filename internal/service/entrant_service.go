package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/queue"
	"github.com/staylucky/internal/repository"
)

// SignupInput 报名请求输入
type SignupInput struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

// EntrantUpdateInput 管理端更新报名用户输入
type EntrantUpdateInput struct {
	Name        *string `json:"name"`
	Confirmed   *bool   `json:"confirmed"`
	Stars       *int    `json:"stars"`
	IsReturning *bool   `json:"is_returning"`
	CountryCode *string `json:"country_code"`
}

// EntrantService 报名用户业务服务
type EntrantService struct {
	cfg         *config.Config
	entrantRepo repository.EntrantRepository
	vendorRepo  repository.VendorRepository
	queueClient *queue.Client
}

// NewEntrantService 创建报名用户服务
func NewEntrantService(
	cfg *config.Config,
	entrantRepo repository.EntrantRepository,
	vendorRepo repository.VendorRepository,
	queueClient *queue.Client,
) *EntrantService {
	return &EntrantService{
		cfg:         cfg,
		entrantRepo: entrantRepo,
		vendorRepo:  vendorRepo,
		queueClient: queueClient,
	}
}

// Signup 报名参与抽奖
// 邮箱统一小写去重；存在近期渠道点击时执行末次点击归因。
func (s *EntrantService) Signup(input SignupInput, clientIP string) (*models.Entrant, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	existing, err := s.entrantRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	entrant := &models.Entrant{
		Email:       email,
		Name:        strings.TrimSpace(input.Name),
		CountryCode: strings.ToUpper(strings.TrimSpace(input.CountryCode)),
		UTMSource:   strings.TrimSpace(input.UTMSource),
		UTMMedium:   strings.TrimSpace(input.UTMMedium),
		UTMCampaign: strings.TrimSpace(input.UTMCampaign),
		SignupIP:    strings.TrimSpace(clientIP),
	}

	// 末次点击归因：归因窗口内最近一次有效渠道点击
	if ipHash := HashClientIP(clientIP); ipHash != "" {
		windowDays := s.cfg.Vendor.AttributionWindowDays
		if windowDays <= 0 {
			windowDays = 30
		}
		since := time.Now().AddDate(0, 0, -windowDays)
		vendor, err := s.vendorRepo.GetLatestClickedVendorByIPHash(ipHash, since)
		if err != nil {
			logger.Warnw("signup_attribution_lookup_failed", "error", err)
		} else if vendor != nil {
			entrant.VendorID = &vendor.ID
		}
	}

	if err := s.entrantRepo.Create(entrant); err != nil {
		return nil, err
	}

	logger.Infow("entrant_signed_up",
		"entrant_id", entrant.ID,
		"utm_source", entrant.UTMSource,
		"attributed", entrant.VendorID != nil,
	)

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueEntrantConfirmEmail(queue.EntrantConfirmEmailPayload{EntrantID: entrant.ID}); err != nil {
			logger.Warnw("confirm_email_enqueue_failed", "entrant_id", entrant.ID, "error", err)
		}
	}

	return entrant, nil
}

// BuildConfirmToken 生成邮箱确认令牌（HMAC 签名，带过期时间）
func (s *EntrantService) BuildConfirmToken(entrant *models.Entrant) string {
	expireHours := s.cfg.Giveaway.ConfirmExpireHours
	if expireHours <= 0 {
		expireHours = 72
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour).Unix()
	payload := fmt.Sprintf("%d.%d", entrant.ID, expiresAt)
	return payload + "." + s.signConfirmPayload(payload)
}

// BuildConfirmURL 生成邮箱确认链接
func (s *EntrantService) BuildConfirmURL(entrant *models.Entrant) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Site.BaseURL), "/")
	return fmt.Sprintf("%s/api/v1/confirm?token=%s", base, s.BuildConfirmToken(entrant))
}

// Confirm 校验令牌并将报名用户标记为已确认（重复确认为无操作）
func (s *EntrantService) Confirm(token string) (*models.Entrant, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return nil, ErrConfirmTokenInvalid
	}
	entrantID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || entrantID == 0 {
		return nil, ErrConfirmTokenInvalid
	}
	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, ErrConfirmTokenInvalid
	}

	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(s.signConfirmPayload(payload))) {
		return nil, ErrConfirmTokenInvalid
	}
	if time.Now().Unix() > expiresAt {
		return nil, ErrConfirmTokenInvalid
	}

	entrant, err := s.entrantRepo.GetByID(uint(entrantID))
	if err != nil {
		return nil, err
	}
	if entrant == nil {
		return nil, ErrConfirmTokenInvalid
	}
	if entrant.Confirmed {
		return entrant, nil
	}

	now := time.Now()
	entrant.Confirmed = true
	entrant.ConfirmedAt = &now
	if err := s.entrantRepo.Update(entrant); err != nil {
		return nil, err
	}

	logger.Infow("entrant_confirmed", "entrant_id", entrant.ID)
	return entrant, nil
}

// Get 获取报名用户
func (s *EntrantService) Get(id uint) (*models.Entrant, error) {
	entrant, err := s.entrantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entrant == nil {
		return nil, ErrNotFound
	}
	return entrant, nil
}

// List 查询报名用户列表
func (s *EntrantService) List(filter repository.EntrantListFilter) ([]models.Entrant, int64, error) {
	return s.entrantRepo.List(filter)
}

// Update 管理端更新报名用户
func (s *EntrantService) Update(id uint, input EntrantUpdateInput) (*models.Entrant, error) {
	entrant, err := s.entrantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entrant == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		entrant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Confirmed != nil {
		entrant.Confirmed = *input.Confirmed
		if *input.Confirmed && entrant.ConfirmedAt == nil {
			now := time.Now()
			entrant.ConfirmedAt = &now
		}
	}
	if input.Stars != nil {
		if *input.Stars < 0 {
			return nil, fmt.Errorf("%w: stars must not be negative", ErrDrawCriteriaInvalid)
		}
		entrant.Stars = *input.Stars
	}
	if input.IsReturning != nil {
		entrant.IsReturning = *input.IsReturning
	}
	if input.CountryCode != nil {
		entrant.CountryCode = strings.ToUpper(strings.TrimSpace(*input.CountryCode))
	}

	if err := s.entrantRepo.Update(entrant); err != nil {
		return nil, err
	}
	return entrant, nil
}

// BatchUpdate 批量更新报名用户（仅支持确认状态与回访标记）
func (s *EntrantService) BatchUpdate(ids []uint, confirmed, isReturning *bool) (int64, error) {
	updates := make(map[string]interface{})
	if confirmed != nil {
		updates["confirmed"] = *confirmed
	}
	if isReturning != nil {
		updates["is_returning"] = *isReturning
	}
	if len(updates) == 0 {
		return 0, nil
	}
	updates["updated_at"] = time.Now()
	return s.entrantRepo.BatchUpdate(ids, updates)
}

// ExportCSV 导出报名用户列表
func (s *EntrantService) ExportCSV(filter repository.EntrantListFilter) ([]byte, error) {
	filter.Page = 0
	filter.PageSize = 0
	entrants, _, err := s.entrantRepo.List(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{"id", "email", "name", "confirmed", "stars", "is_returning", "country_code", "utm_source", "utm_medium", "utm_campaign", "created_at"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, entrant := range entrants {
		row := []string{
			strconv.FormatUint(uint64(entrant.ID), 10),
			entrant.Email,
			entrant.Name,
			strconv.FormatBool(entrant.Confirmed),
			strconv.Itoa(entrant.Stars),
			strconv.FormatBool(entrant.IsReturning),
			entrant.CountryCode,
			entrant.UTMSource,
			entrant.UTMMedium,
			entrant.UTMCampaign,
			entrant.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *EntrantService) signConfirmPayload(payload string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Giveaway.ConfirmTokenSecret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// HashClientIP 计算访客 IP 哈希（点击去重与归因共用）
func HashClientIP(clientIP string) string {
	trimmed := strings.TrimSpace(clientIP)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
