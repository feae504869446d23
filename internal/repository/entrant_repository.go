package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/staylucky/internal/models"

	"gorm.io/gorm"
)

// EntrantRepository 报名用户数据访问接口
type EntrantRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) EntrantRepository

	GetByID(id uint) (*models.Entrant, error)
	GetByEmail(email string) (*models.Entrant, error)
	Create(entrant *models.Entrant) error
	Update(entrant *models.Entrant) error
	BatchUpdate(ids []uint, updates map[string]interface{}) (int64, error)
	List(filter EntrantListFilter) ([]models.Entrant, int64, error)
	Count() (int64, error)

	ListEligible(filter EntrantEligibilityFilter) ([]models.Entrant, error)
	CountEligible(filter EntrantEligibilityFilter) (int64, error)
}

// GormEntrantRepository GORM 实现
type GormEntrantRepository struct {
	db *gorm.DB
}

// NewEntrantRepository 创建报名用户仓库
func NewEntrantRepository(db *gorm.DB) *GormEntrantRepository {
	return &GormEntrantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormEntrantRepository) WithTx(tx *gorm.DB) EntrantRepository {
	if tx == nil {
		return r
	}
	return &GormEntrantRepository{db: tx}
}

// Transaction 执行事务
func (r *GormEntrantRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取报名用户
func (r *GormEntrantRepository) GetByID(id uint) (*models.Entrant, error) {
	if id == 0 {
		return nil, nil
	}
	var entrant models.Entrant
	if err := r.db.First(&entrant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entrant, nil
}

// GetByEmail 根据邮箱获取报名用户（邮箱统一小写比较）
func (r *GormEntrantRepository) GetByEmail(email string) (*models.Entrant, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	var entrant models.Entrant
	if err := r.db.Where("email = ?", normalized).First(&entrant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entrant, nil
}

// Create 创建报名用户
func (r *GormEntrantRepository) Create(entrant *models.Entrant) error {
	return r.db.Create(entrant).Error
}

// Update 更新报名用户
func (r *GormEntrantRepository) Update(entrant *models.Entrant) error {
	return r.db.Save(entrant).Error
}

// BatchUpdate 批量更新报名用户
func (r *GormEntrantRepository) BatchUpdate(ids []uint, updates map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Entrant{}).Where("id IN ?", ids).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List 查询报名用户列表
func (r *GormEntrantRepository) List(filter EntrantListFilter) ([]models.Entrant, int64, error) {
	query := r.db.Model(&models.Entrant{})
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		like := "%" + keyword + "%"
		operator := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("(email %s ? OR name %s ?)", operator, operator), like, like)
	}
	if filter.Confirmed != nil {
		query = query.Where("confirmed = ?", *filter.Confirmed)
	}
	if filter.IsReturning != nil {
		query = query.Where("is_returning = ?", *filter.IsReturning)
	}
	if code := strings.ToUpper(strings.TrimSpace(filter.CountryCode)); code != "" {
		query = query.Where("country_code = ?", code)
	}
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.MinStars > 0 {
		query = query.Where("stars >= ?", filter.MinStars)
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

	entrants := make([]models.Entrant, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).
		Find(&entrants).Error; err != nil {
		return nil, 0, err
	}
	return entrants, total, nil
}

// Count 统计报名用户总数
func (r *GormEntrantRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Entrant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyEligibility 构建资格筛选查询（各条件 AND 组合）
func (r *GormEntrantRepository) applyEligibility(filter EntrantEligibilityFilter) *gorm.DB {
	query := r.db.Model(&models.Entrant{})
	if filter.Confirmed != nil {
		query = query.Where("confirmed = ?", *filter.Confirmed)
	}
	if filter.MinStars > 0 {
		query = query.Where("stars >= ?", filter.MinStars)
	}
	if filter.Returning {
		query = query.Where("is_returning = ?", true)
	}
	if code := strings.ToUpper(strings.TrimSpace(filter.CountryCode)); code != "" {
		query = query.Where("country_code = ?", code)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

// ListEligible 查询符合资格条件的报名用户（按 ID 升序，顺序稳定）
func (r *GormEntrantRepository) ListEligible(filter EntrantEligibilityFilter) ([]models.Entrant, error) {
	query := r.applyEligibility(filter).Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	entrants := make([]models.Entrant, 0)
	if err := query.Find(&entrants).Error; err != nil {
		return nil, err
	}
	return entrants, nil
}

// CountEligible 统计符合资格条件的报名用户数量
func (r *GormEntrantRepository) CountEligible(filter EntrantEligibilityFilter) (int64, error) {
	var count int64
	if err := r.applyEligibility(filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
