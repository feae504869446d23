package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/staylucky/internal/models"

	"gorm.io/gorm"
)

// ContestRepository 摄影比赛数据访问接口
type ContestRepository interface {
	GetByID(id uint) (*models.Contest, error)
	GetBySlug(slug string) (*models.Contest, error)
	Create(contest *models.Contest) error
	Update(contest *models.Contest) error
	Delete(id uint) error
	List(filter ContestListFilter) ([]models.Contest, int64, error)

	CreateEntry(entry *models.PhotoEntry) error
	GetEntryByID(id uint) (*models.PhotoEntry, error)
	GetEntryByInstagramID(contestID uint, instagramID string) (*models.PhotoEntry, error)
	UpdateEntry(entry *models.PhotoEntry) error
	ListEntries(filter PhotoEntryListFilter) ([]models.PhotoEntry, int64, error)
}

// GormContestRepository GORM 实现
type GormContestRepository struct {
	db *gorm.DB
}

// NewContestRepository 创建摄影比赛仓库
func NewContestRepository(db *gorm.DB) *GormContestRepository {
	return &GormContestRepository{db: db}
}

// GetByID 根据 ID 获取比赛
func (r *GormContestRepository) GetByID(id uint) (*models.Contest, error) {
	if id == 0 {
		return nil, nil
	}
	var contest models.Contest
	if err := r.db.First(&contest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contest, nil
}

// GetBySlug 根据标识获取比赛
func (r *GormContestRepository) GetBySlug(slug string) (*models.Contest, error) {
	normalized := strings.TrimSpace(slug)
	if normalized == "" {
		return nil, nil
	}
	var contest models.Contest
	if err := r.db.Where("slug = ?", normalized).First(&contest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contest, nil
}

// Create 创建比赛
func (r *GormContestRepository) Create(contest *models.Contest) error {
	return r.db.Create(contest).Error
}

// Update 更新比赛
func (r *GormContestRepository) Update(contest *models.Contest) error {
	return r.db.Save(contest).Error
}

// Delete 删除比赛（软删除）
func (r *GormContestRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Contest{}, id).Error
}

// List 查询比赛列表
func (r *GormContestRepository) List(filter ContestListFilter) ([]models.Contest, int64, error) {
	query := r.db.Model(&models.Contest{})
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		like := "%" + keyword + "%"
		operator := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("(title %s ? OR slug %s ? OR hashtag %s ?)", operator, operator, operator),
			like, like, like)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contests := make([]models.Contest, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).
		Find(&contests).Error; err != nil {
		return nil, 0, err
	}
	return contests, total, nil
}

// CreateEntry 创建参赛照片
func (r *GormContestRepository) CreateEntry(entry *models.PhotoEntry) error {
	return r.db.Create(entry).Error
}

// GetEntryByID 根据 ID 获取参赛照片
func (r *GormContestRepository) GetEntryByID(id uint) (*models.PhotoEntry, error) {
	if id == 0 {
		return nil, nil
	}
	var entry models.PhotoEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetEntryByInstagramID 按比赛与 Instagram 媒体ID查询参赛照片（同步去重）
func (r *GormContestRepository) GetEntryByInstagramID(contestID uint, instagramID string) (*models.PhotoEntry, error) {
	mediaID := strings.TrimSpace(instagramID)
	if contestID == 0 || mediaID == "" {
		return nil, nil
	}
	var entry models.PhotoEntry
	if err := r.db.Where("contest_id = ? AND instagram_id = ?", contestID, mediaID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry 更新参赛照片
func (r *GormContestRepository) UpdateEntry(entry *models.PhotoEntry) error {
	return r.db.Save(entry).Error
}

// ListEntries 查询参赛照片列表
func (r *GormContestRepository) ListEntries(filter PhotoEntryListFilter) ([]models.PhotoEntry, int64, error) {
	query := r.db.Model(&models.PhotoEntry{})
	if filter.ContestID != 0 {
		query = query.Where("contest_id = ?", filter.ContestID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if username := strings.TrimSpace(filter.Username); username != "" {
		query = query.Where("username = ?", username)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]models.PhotoEntry, 0)
	if err := applyPagination(query.Order("posted_at DESC, id DESC"), filter.Page, filter.PageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
