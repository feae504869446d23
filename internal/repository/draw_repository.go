package repository

import (
	"errors"

	"github.com/staylucky/internal/models"

	"gorm.io/gorm"
)

// DrawRepository 开奖记录数据访问接口（只写入与查询，不提供更新删除）
type DrawRepository interface {
	WithTx(tx *gorm.DB) DrawRepository

	Create(record *models.DrawRecord) error
	GetByID(id uint) (*models.DrawRecord, error)
	ListRecent(limit int) ([]models.DrawRecord, error)
	List(filter DrawRecordListFilter) ([]models.DrawRecord, int64, error)
	Count() (int64, error)
}

// GormDrawRepository GORM 实现
type GormDrawRepository struct {
	db *gorm.DB
}

// NewDrawRepository 创建开奖记录仓库
func NewDrawRepository(db *gorm.DB) *GormDrawRepository {
	return &GormDrawRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDrawRepository) WithTx(tx *gorm.DB) DrawRepository {
	if tx == nil {
		return r
	}
	return &GormDrawRepository{db: tx}
}

// Create 写入开奖记录
func (r *GormDrawRepository) Create(record *models.DrawRecord) error {
	return r.db.Create(record).Error
}

// GetByID 根据 ID 获取开奖记录
func (r *GormDrawRepository) GetByID(id uint) (*models.DrawRecord, error) {
	if id == 0 {
		return nil, nil
	}
	var record models.DrawRecord
	if err := r.db.Preload("Promotion").First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListRecent 查询最近的开奖记录（时间倒序）
func (r *GormDrawRepository) ListRecent(limit int) ([]models.DrawRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	records := make([]models.DrawRecord, 0, limit)
	if err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// List 查询开奖记录列表
func (r *GormDrawRepository) List(filter DrawRecordListFilter) ([]models.DrawRecord, int64, error) {
	query := r.db.Model(&models.DrawRecord{})
	if filter.PromotionID != 0 {
		query = query.Where("promotion_id = ?", filter.PromotionID)
	}
	if filter.WinnerID != 0 {
		query = query.Where("winner_id = ?", filter.WinnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.DrawRecord, 0)
	if err := applyPagination(query.Order("created_at DESC, id DESC"), filter.Page, filter.PageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Count 统计开奖记录数量
func (r *GormDrawRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.DrawRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
