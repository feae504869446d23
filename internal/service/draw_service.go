package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/queue"
	"github.com/staylucky/internal/repository"

	"gorm.io/gorm"
)

const (
	drawHistoryPageSize = 10
	drawSampleLimit     = 10
	drawDateLayout      = "2006-01-02"
)

// DrawCriteria 开奖筛选条件（所有条件 AND 组合）
type DrawCriteria struct {
	Confirmed   *bool  `json:"confirmed,omitempty"`    // 非空时精确匹配确认状态
	MinStars    int    `json:"min_stars,omitempty"`    // 大于 0 时要求 stars >= min_stars
	Returning   *bool  `json:"returning,omitempty"`    // 仅为 true 时要求回访用户
	CountryCode string `json:"country_code,omitempty"` // 国家代码（大小写不敏感）
	StartDate   string `json:"start_date,omitempty"`   // 报名开始日期（YYYY-MM-DD，含当天）
	EndDate     string `json:"end_date,omitempty"`     // 报名结束日期（YYYY-MM-DD，含当天）
	PromotionID uint   `json:"promotion_id,omitempty"` // 关联活动ID（可选）
}

// DrawSimulateResult 试算结果
type DrawSimulateResult struct {
	EligibleCount int64    `json:"eligible_count"`
	Sample        []string `json:"sample"`
}

// DrawCommitResult 开奖结果
type DrawCommitResult struct {
	DrawID        uint   `json:"draw_id"`
	WinnerID      uint   `json:"winner_id"`
	WinnerEmail   string `json:"winner_email"`
	EligibleCount int64  `json:"eligible_count"`
}

// DrawService 开奖业务服务
type DrawService struct {
	entrantRepo   repository.EntrantRepository
	drawRepo      repository.DrawRepository
	promotionRepo repository.PromotionRepository
	queueClient   *queue.Client
}

// NewDrawService 创建开奖服务
func NewDrawService(
	entrantRepo repository.EntrantRepository,
	drawRepo repository.DrawRepository,
	promotionRepo repository.PromotionRepository,
	queueClient *queue.Client,
) *DrawService {
	return &DrawService{
		entrantRepo:   entrantRepo,
		drawRepo:      drawRepo,
		promotionRepo: promotionRepo,
		queueClient:   queueClient,
	}
}

// BuildEligibilityFilter 将筛选条件转换为仓储过滤器
// 非法条件（负数星数、无法解析的日期、起止倒置）返回 ErrDrawCriteriaInvalid。
func BuildEligibilityFilter(criteria DrawCriteria) (repository.EntrantEligibilityFilter, error) {
	filter := repository.EntrantEligibilityFilter{}

	if criteria.MinStars < 0 {
		return filter, fmt.Errorf("%w: min_stars must not be negative", ErrDrawCriteriaInvalid)
	}
	filter.MinStars = criteria.MinStars
	filter.Confirmed = criteria.Confirmed
	// returning 仅在显式为 true 时生效，false 与缺省都不限制
	filter.Returning = criteria.Returning != nil && *criteria.Returning
	filter.CountryCode = strings.ToUpper(strings.TrimSpace(criteria.CountryCode))

	if raw := strings.TrimSpace(criteria.StartDate); raw != "" {
		parsed, err := time.ParseInLocation(drawDateLayout, raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("%w: start_date %q is not a valid date", ErrDrawCriteriaInvalid, raw)
		}
		filter.CreatedFrom = &parsed
	}
	if raw := strings.TrimSpace(criteria.EndDate); raw != "" {
		parsed, err := time.ParseInLocation(drawDateLayout, raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("%w: end_date %q is not a valid date", ErrDrawCriteriaInvalid, raw)
		}
		// 结束日期含当天全部时间
		endOfDay := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)
		filter.CreatedTo = &endOfDay
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedFrom.After(*filter.CreatedTo) {
		return filter, fmt.Errorf("%w: start_date is after end_date", ErrDrawCriteriaInvalid)
	}

	return filter, nil
}

// Simulate 试算开奖：返回符合条件人数与少量样本，不落库
// 人数用 SQL 计数，样本只取前若干条，避免整池加载。
func (s *DrawService) Simulate(criteria DrawCriteria) (*DrawSimulateResult, error) {
	filter, err := BuildEligibilityFilter(criteria)
	if err != nil {
		return nil, err
	}

	count, err := s.entrantRepo.CountEligible(filter)
	if err != nil {
		return nil, err
	}

	sample := make([]string, 0, drawSampleLimit)
	if count > 0 {
		filter.Limit = drawSampleLimit
		entrants, err := s.entrantRepo.ListEligible(filter)
		if err != nil {
			return nil, err
		}
		for _, entrant := range entrants {
			sample = append(sample, entrant.Email)
		}
	}

	return &DrawSimulateResult{
		EligibleCount: count,
		Sample:        sample,
	}, nil
}

// Commit 执行开奖：筛选、等概率抽取并在同一事务内写入开奖记录
// 候选池为空返回 ErrNoEligibleCandidates，不产生任何写入。
func (s *DrawService) Commit(criteria DrawCriteria, operatorID uint) (*DrawCommitResult, error) {
	filter, err := BuildEligibilityFilter(criteria)
	if err != nil {
		return nil, err
	}

	var promotionID *uint
	if criteria.PromotionID != 0 {
		promotion, err := s.promotionRepo.GetByID(criteria.PromotionID)
		if err != nil {
			return nil, err
		}
		if promotion == nil {
			return nil, ErrNotFound
		}
		promotionID = &promotion.ID
	}

	criteriaSnapshot, err := criteriaToJSON(criteria)
	if err != nil {
		return nil, err
	}

	var result DrawCommitResult
	err = s.entrantRepo.Transaction(func(tx *gorm.DB) error {
		entrants, err := s.entrantRepo.WithTx(tx).ListEligible(filter)
		if err != nil {
			return err
		}
		if len(entrants) == 0 {
			return ErrNoEligibleCandidates
		}

		// 等概率抽取，不按星数加权
		winner := entrants[rand.IntN(len(entrants))]

		record := &models.DrawRecord{
			PromotionID:   promotionID,
			CriteriaJSON:  criteriaSnapshot,
			WinnerID:      winner.ID,
			WinnerEmail:   winner.Email,
			EligibleCount: int64(len(entrants)),
		}
		if operatorID != 0 {
			record.OperatorID = &operatorID
		}
		if err := s.drawRepo.WithTx(tx).Create(record); err != nil {
			return err
		}

		result = DrawCommitResult{
			DrawID:        record.ID,
			WinnerID:      winner.ID,
			WinnerEmail:   winner.Email,
			EligibleCount: int64(len(entrants)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("draw_committed",
		"draw_id", result.DrawID,
		"winner_id", result.WinnerID,
		"eligible_count", result.EligibleCount,
	)

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueDrawWinnerEmail(queue.DrawWinnerEmailPayload{DrawRecordID: result.DrawID}); err != nil {
			logger.Warnw("draw_winner_email_enqueue_failed", "draw_id", result.DrawID, "error", err)
		}
	}

	return &result, nil
}

// History 查询最近的开奖记录（固定 10 条，时间倒序）
func (s *DrawService) History() ([]models.DrawRecord, error) {
	return s.drawRepo.ListRecent(drawHistoryPageSize)
}

// GetRecord 获取单条开奖记录
func (s *DrawService) GetRecord(id uint) (*models.DrawRecord, error) {
	record, err := s.drawRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

// ExportCSV 按筛选条件导出符合资格的报名用户列表
func (s *DrawService) ExportCSV(criteria DrawCriteria) ([]byte, error) {
	filter, err := BuildEligibilityFilter(criteria)
	if err != nil {
		return nil, err
	}

	entrants, err := s.entrantRepo.ListEligible(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{"id", "email", "name", "confirmed", "stars", "is_returning", "country_code", "created_at"}
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

func criteriaToJSON(criteria DrawCriteria) (models.JSON, error) {
	raw, err := json.Marshal(criteria)
	if err != nil {
		return nil, err
	}
	snapshot := make(models.JSON)
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
