package repository

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 抽奖活动数据访问接口
type PromotionRepository interface {
	GetByID(id uint) (*models.Promotion, error)
	GetBySlug(slug string) (*models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	Delete(id uint) error
	List(page, pageSize int, status string) ([]models.Promotion, int64, error)
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建抽奖活动仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// GetByID 根据 ID 获取活动
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	if id == 0 {
		return nil, nil
	}
	var promotion models.Promotion
	if err := r.db.First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// GetBySlug 根据标识获取活动
func (r *GormPromotionRepository) GetBySlug(slug string) (*models.Promotion, error) {
	normalized := strings.TrimSpace(slug)
	if normalized == "" {
		return nil, nil
	}
	var promotion models.Promotion
	if err := r.db.Where("slug = ?", normalized).First(&promotion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// Create 创建活动
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// Update 更新活动
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Save(promotion).Error
}

// Delete 删除活动（软删除）
func (r *GormPromotionRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Promotion{}, id).Error
}

// List 查询活动列表
func (r *GormPromotionRepository) List(page, pageSize int, status string) ([]models.Promotion, int64, error) {
	query := r.db.Model(&models.Promotion{})
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	promotions := make([]models.Promotion, 0)
	if err := applyPagination(query.Order("id DESC"), page, pageSize).
		Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}
