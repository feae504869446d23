package service

import (
	"strings"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/shopspring/decimal"
)

// VendorInput 渠道商创建/更新输入
type VendorInput struct {
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	ContactEmail string       `json:"contact_email"`
	Website      string       `json:"website"`
	TargetURL    string       `json:"target_url"`
	RatePercent  models.Money `json:"rate_percent"`
	Status       string       `json:"status"`
	Notes        string       `json:"notes"`
}

// CommissionCreateInput 手工佣金录入
type CommissionCreateInput struct {
	VendorID    uint         `json:"vendor_id"`
	EntrantID   *uint        `json:"entrant_id"`
	Amount      models.Money `json:"amount"`
	Description string       `json:"description"`
}

// VendorSummary 渠道商佣金汇总
// total_earned 为全部状态合计；其余按状态分组。
type VendorSummary struct {
	VendorID          uint         `json:"vendor_id"`
	ClickCount        int64        `json:"click_count"`
	TotalEarned       models.Money `json:"total_earned"`
	TotalPending      models.Money `json:"total_pending"`
	TotalConfirmed    models.Money `json:"total_confirmed"`
	TotalPaid         models.Money `json:"total_paid"`
	TotalCancelled    models.Money `json:"total_cancelled"`
	TotalTransactions int64        `json:"total_transactions"`
}

// VendorService 渠道商业务服务
type VendorService struct {
	cfg        *config.Config
	vendorRepo repository.VendorRepository
}

// NewVendorService 创建渠道商服务
func NewVendorService(cfg *config.Config, vendorRepo repository.VendorRepository) *VendorService {
	return &VendorService{
		cfg:        cfg,
		vendorRepo: vendorRepo,
	}
}

// Create 创建渠道商
func (s *VendorService) Create(input VendorInput) (*models.Vendor, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrVendorCodeTaken
	}
	existing, err := s.vendorRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrVendorCodeTaken
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.VendorStatusActive
	}

	vendor := &models.Vendor{
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		Website:      strings.TrimSpace(input.Website),
		TargetURL:    strings.TrimSpace(input.TargetURL),
		RatePercent:  input.RatePercent,
		Status:       status,
		Notes:        input.Notes,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Get 获取渠道商
func (s *VendorService) Get(id uint) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrNotFound
	}
	return vendor, nil
}

// Update 更新渠道商
func (s *VendorService) Update(id uint, input VendorInput) (*models.Vendor, error) {
	vendor, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" && code != vendor.Code {
		existing, err := s.vendorRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != vendor.ID {
			return nil, ErrVendorCodeTaken
		}
		vendor.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		vendor.Name = name
	}
	vendor.ContactEmail = strings.TrimSpace(input.ContactEmail)
	vendor.Website = strings.TrimSpace(input.Website)
	vendor.TargetURL = strings.TrimSpace(input.TargetURL)
	vendor.RatePercent = input.RatePercent
	if status := strings.TrimSpace(input.Status); status != "" {
		vendor.Status = status
	}
	vendor.Notes = input.Notes

	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete 删除渠道商
func (s *VendorService) Delete(id uint) error {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return err
	}
	if vendor == nil {
		return ErrNotFound
	}
	return s.vendorRepo.Delete(id)
}

// List 查询渠道商列表
func (s *VendorService) List(filter repository.VendorListFilter) ([]models.Vendor, int64, error) {
	return s.vendorRepo.List(filter)
}

// TrackClick 记录推广点击并返回跳转目标
// 去重窗口内同一访客重复点击不再落库，但仍然正常跳转。
func (s *VendorService) TrackClick(code, clientIP, userAgent, referer string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrNotFound
	}
	if vendor.Status != constants.VendorStatusActive {
		return nil, ErrVendorDisabled
	}

	ipHash := HashClientIP(clientIP)
	dedupeMinutes := s.cfg.Vendor.ClickDedupeMinutes
	if dedupeMinutes <= 0 {
		dedupeMinutes = 10
	}
	since := time.Now().Add(-time.Duration(dedupeMinutes) * time.Minute)

	duplicated, err := s.vendorRepo.HasRecentClick(vendor.ID, ipHash, since)
	if err != nil {
		return nil, err
	}
	if !duplicated {
		click := &models.VendorClick{
			VendorID:  vendor.ID,
			IPHash:    ipHash,
			UserAgent: strings.TrimSpace(userAgent),
			Referer:   strings.TrimSpace(referer),
		}
		if err := s.vendorRepo.CreateClick(click); err != nil {
			return nil, err
		}
		logger.Infow("vendor_click_tracked", "vendor_id", vendor.ID)
	}

	return vendor, nil
}

// CreateCommission 录入佣金记录（金额不允许为负）
func (s *VendorService) CreateCommission(input CommissionCreateInput) (*models.CommissionRecord, error) {
	vendor, err := s.Get(input.VendorID)
	if err != nil {
		return nil, err
	}
	if input.Amount.IsNegative() {
		return nil, ErrCommissionAmountInvalid
	}

	holdDays := s.cfg.Vendor.CommissionHoldDays
	if holdDays < 0 {
		holdDays = 0
	}
	confirmAt := time.Now().AddDate(0, 0, holdDays)

	commission := &models.CommissionRecord{
		VendorID:    vendor.ID,
		EntrantID:   input.EntrantID,
		Source:      constants.CommissionSourceManual,
		Amount:      input.Amount,
		Status:      constants.CommissionStatusPending,
		Description: strings.TrimSpace(input.Description),
		ConfirmAt:   &confirmAt,
	}
	if err := s.vendorRepo.CreateCommission(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

// ListCommissions 查询佣金记录列表
func (s *VendorService) ListCommissions(filter repository.CommissionListFilter) ([]models.CommissionRecord, int64, error) {
	return s.vendorRepo.ListCommissions(filter)
}

// UpdateCommissionStatus 管理端调整佣金状态
// 允许的流转：pending/confirmed → paid，pending → cancelled。
func (s *VendorService) UpdateCommissionStatus(id uint, status string) (*models.CommissionRecord, error) {
	commission, err := s.vendorRepo.GetCommissionByID(id)
	if err != nil {
		return nil, err
	}
	if commission == nil {
		return nil, ErrNotFound
	}

	target := strings.TrimSpace(status)
	switch target {
	case constants.CommissionStatusPaid:
		if commission.Status != constants.CommissionStatusPending && commission.Status != constants.CommissionStatusConfirmed {
			return nil, ErrCommissionStatusInvalid
		}
		now := time.Now()
		commission.PaidAt = &now
	case constants.CommissionStatusCancelled:
		if commission.Status != constants.CommissionStatusPending {
			return nil, ErrCommissionStatusInvalid
		}
	default:
		return nil, ErrCommissionStatusInvalid
	}

	commission.Status = target
	if err := s.vendorRepo.UpdateCommission(commission); err != nil {
		return nil, err
	}
	logger.Infow("commission_status_updated", "commission_id", commission.ID, "status", target)
	return commission, nil
}

// AggregateCommissions 按请求实时汇总渠道商佣金
// total_earned 统计全部状态的记录。
func (s *VendorService) AggregateCommissions(vendorID uint) (*VendorSummary, error) {
	vendor, err := s.Get(vendorID)
	if err != nil {
		return nil, err
	}

	rows, err := s.vendorRepo.AggregateCommissionsByVendor(vendor.ID)
	if err != nil {
		return nil, err
	}

	clickCount, err := s.vendorRepo.CountClicksByVendor(vendor.ID)
	if err != nil {
		return nil, err
	}

	summary := &VendorSummary{
		VendorID:   vendor.ID,
		ClickCount: clickCount,
	}
	earned := decimal.Zero
	for _, row := range rows {
		earned = earned.Add(row.Total)
		summary.TotalTransactions += row.Count
		switch row.Status {
		case constants.CommissionStatusPending:
			summary.TotalPending = models.NewMoneyFromDecimal(row.Total)
		case constants.CommissionStatusConfirmed:
			summary.TotalConfirmed = models.NewMoneyFromDecimal(row.Total)
		case constants.CommissionStatusPaid:
			summary.TotalPaid = models.NewMoneyFromDecimal(row.Total)
		case constants.CommissionStatusCancelled:
			summary.TotalCancelled = models.NewMoneyFromDecimal(row.Total)
		}
	}
	summary.TotalEarned = models.NewMoneyFromDecimal(earned)
	return summary, nil
}

// ConfirmDueCommissions 将冻结期已到的待确认佣金转为已确认（由后台定时任务调用）
func (s *VendorService) ConfirmDueCommissions() (int64, error) {
	now := time.Now()
	affected, err := s.vendorRepo.MarkPendingCommissionsConfirmed(now, now)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		logger.Infow("commissions_confirmed", "count", affected)
	}
	return affected, nil
}
