package service

import (
	"strings"
	"time"

	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"
)

// PromotionInput 抽奖活动创建/更新输入
type PromotionInput struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PrizeName   string       `json:"prize_name"`
	PrizeValue  models.Money `json:"prize_value"`
	Status      string       `json:"status"`
	StartAt     *time.Time   `json:"start_at"`
	EndAt       *time.Time   `json:"end_at"`
}

// PromotionService 抽奖活动业务服务
type PromotionService struct {
	promotionRepo repository.PromotionRepository
}

// NewPromotionService 创建抽奖活动服务
func NewPromotionService(promotionRepo repository.PromotionRepository) *PromotionService {
	return &PromotionService{promotionRepo: promotionRepo}
}

// Create 创建活动
func (s *PromotionService) Create(input PromotionInput) (*models.Promotion, error) {
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.promotionRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPromotionSlugTaken
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.PromotionStatusDraft
	}

	promotion := &models.Promotion{
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		PrizeName:   strings.TrimSpace(input.PrizeName),
		PrizeValue:  input.PrizeValue,
		Status:      status,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
	}
	if err := s.promotionRepo.Create(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Get 获取活动
func (s *PromotionService) Get(id uint) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrNotFound
	}
	return promotion, nil
}

// Update 更新活动
func (s *PromotionService) Update(id uint, input PromotionInput) (*models.Promotion, error) {
	promotion, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != promotion.Slug {
		existing, err := s.promotionRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != promotion.ID {
			return nil, ErrPromotionSlugTaken
		}
		promotion.Slug = slug
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		promotion.Title = title
	}
	promotion.Description = input.Description
	promotion.PrizeName = strings.TrimSpace(input.PrizeName)
	promotion.PrizeValue = input.PrizeValue
	if status := strings.TrimSpace(input.Status); status != "" {
		promotion.Status = status
	}
	promotion.StartAt = input.StartAt
	promotion.EndAt = input.EndAt

	if err := s.promotionRepo.Update(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Delete 删除活动
func (s *PromotionService) Delete(id uint) error {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if promotion == nil {
		return ErrNotFound
	}
	return s.promotionRepo.Delete(id)
}

// List 查询活动列表
func (s *PromotionService) List(page, pageSize int, status string) ([]models.Promotion, int64, error) {
	return s.promotionRepo.List(page, pageSize, status)
}
