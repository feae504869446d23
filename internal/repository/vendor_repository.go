package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionStatusAggregate 按状态汇总的佣金数据
type CommissionStatusAggregate struct {
	Status string          `gorm:"column:status"`
	Total  decimal.Decimal `gorm:"column:total"`
	Count  int64           `gorm:"column:count"`
}

// VendorRepository 渠道商数据访问接口
type VendorRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) VendorRepository

	GetByID(id uint) (*models.Vendor, error)
	GetByCode(code string) (*models.Vendor, error)
	Create(vendor *models.Vendor) error
	Update(vendor *models.Vendor) error
	Delete(id uint) error
	List(filter VendorListFilter) ([]models.Vendor, int64, error)
	Count() (int64, error)

	CreateClick(click *models.VendorClick) error
	HasRecentClick(vendorID uint, ipHash string, since time.Time) (bool, error)
	GetLatestClickedVendorByIPHash(ipHash string, since time.Time) (*models.Vendor, error)
	CountClicksByVendor(vendorID uint) (int64, error)

	CreateCommission(commission *models.CommissionRecord) error
	GetCommissionByID(id uint) (*models.CommissionRecord, error)
	UpdateCommission(commission *models.CommissionRecord) error
	ListCommissions(filter CommissionListFilter) ([]models.CommissionRecord, int64, error)
	AggregateCommissionsByVendor(vendorID uint) ([]CommissionStatusAggregate, error)
	MarkPendingCommissionsConfirmed(before, now time.Time) (int64, error)
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建渠道商仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// Transaction 执行事务
func (r *GormVendorRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取渠道商
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	if id == 0 {
		return nil, nil
	}
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByCode 根据推广码获取渠道商（推广码统一大写比较）
func (r *GormVendorRepository) GetByCode(code string) (*models.Vendor, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var vendor models.Vendor
	if err := r.db.Where("code = ?", normalized).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// Create 创建渠道商
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// Update 更新渠道商
func (r *GormVendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// Delete 删除渠道商（软删除）
func (r *GormVendorRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Vendor{}, id).Error
}

// List 查询渠道商列表
func (r *GormVendorRepository) List(filter VendorListFilter) ([]models.Vendor, int64, error) {
	query := r.db.Model(&models.Vendor{})
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		like := "%" + keyword + "%"
		operator := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("(name %s ? OR code %s ? OR contact_email %s ?)", operator, operator, operator),
			like, like, like)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	vendors := make([]models.Vendor, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).
		Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// Count 统计渠道商数量
func (r *GormVendorRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Vendor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateClick 记录推广点击
func (r *GormVendorRepository) CreateClick(click *models.VendorClick) error {
	return r.db.Create(click).Error
}

// HasRecentClick 查询是否存在近期重复点击记录
func (r *GormVendorRepository) HasRecentClick(vendorID uint, ipHash string, since time.Time) (bool, error) {
	if vendorID == 0 || strings.TrimSpace(ipHash) == "" {
		return false, nil
	}
	var total int64
	err := r.db.Model(&models.VendorClick{}).
		Where("vendor_id = ? AND ip_hash = ? AND created_at >= ?", vendorID, strings.TrimSpace(ipHash), since).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// GetLatestClickedVendorByIPHash 查询访客最近一次有效点击对应的渠道商（末次点击归因）
func (r *GormVendorRepository) GetLatestClickedVendorByIPHash(ipHash string, since time.Time) (*models.Vendor, error) {
	key := strings.TrimSpace(ipHash)
	if key == "" {
		return nil, nil
	}

	var vendor models.Vendor
	err := r.db.Model(&models.Vendor{}).
		Joins("JOIN vendor_clicks vc ON vc.vendor_id = vendors.id").
		Where("vc.ip_hash = ? AND vc.created_at >= ? AND vendors.status = ?",
			key,
			since,
			constants.VendorStatusActive,
		).
		Order("vc.created_at DESC, vc.id DESC").
		Limit(1).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// CountClicksByVendor 统计渠道商点击数
func (r *GormVendorRepository) CountClicksByVendor(vendorID uint) (int64, error) {
	if vendorID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.VendorClick{}).Where("vendor_id = ?", vendorID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CreateCommission 创建佣金记录
func (r *GormVendorRepository) CreateCommission(commission *models.CommissionRecord) error {
	return r.db.Create(commission).Error
}

// GetCommissionByID 根据 ID 获取佣金记录
func (r *GormVendorRepository) GetCommissionByID(id uint) (*models.CommissionRecord, error) {
	if id == 0 {
		return nil, nil
	}
	var commission models.CommissionRecord
	if err := r.db.First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// UpdateCommission 更新佣金记录
func (r *GormVendorRepository) UpdateCommission(commission *models.CommissionRecord) error {
	return r.db.Save(commission).Error
}

// ListCommissions 查询佣金记录列表
func (r *GormVendorRepository) ListCommissions(filter CommissionListFilter) ([]models.CommissionRecord, int64, error) {
	query := r.db.Model(&models.CommissionRecord{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		query = query.Where("source = ?", source)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	commissions := make([]models.CommissionRecord, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).
		Find(&commissions).Error; err != nil {
		return nil, 0, err
	}
	return commissions, total, nil
}

// AggregateCommissionsByVendor 按状态汇总渠道商佣金金额与笔数
func (r *GormVendorRepository) AggregateCommissionsByVendor(vendorID uint) ([]CommissionStatusAggregate, error) {
	if vendorID == 0 {
		return []CommissionStatusAggregate{}, nil
	}
	rows := make([]CommissionStatusAggregate, 0)
	err := r.db.Model(&models.CommissionRecord{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("vendor_id = ?", vendorID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkPendingCommissionsConfirmed 将冻结期已到的待确认佣金批量转为已确认
func (r *GormVendorRepository) MarkPendingCommissionsConfirmed(before, now time.Time) (int64, error) {
	result := r.db.Model(&models.CommissionRecord{}).
		Where("status = ? AND confirm_at IS NOT NULL AND confirm_at <= ?",
			constants.CommissionStatusPending, before).
		Updates(map[string]interface{}{
			"status":     constants.CommissionStatusConfirmed,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
