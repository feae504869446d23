package service

import (
	"context"
	"strings"
	"time"

	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/instagram"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/queue"
	"github.com/staylucky/internal/repository"
)

// ContestInput 摄影比赛创建/更新输入
type ContestInput struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Hashtag     string     `json:"hashtag"`
	Status      string     `json:"status"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}

// ContestService 摄影比赛业务服务
type ContestService struct {
	contestRepo repository.ContestRepository
	igClient    *instagram.Client
	queueClient *queue.Client
}

// NewContestService 创建摄影比赛服务
func NewContestService(contestRepo repository.ContestRepository, igClient *instagram.Client, queueClient *queue.Client) *ContestService {
	return &ContestService{
		contestRepo: contestRepo,
		igClient:    igClient,
		queueClient: queueClient,
	}
}

// Create 创建比赛
func (s *ContestService) Create(input ContestInput) (*models.Contest, error) {
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.contestRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrContestSlugTaken
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.ContestStatusDraft
	}

	contest := &models.Contest{
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Hashtag:     strings.TrimPrefix(strings.TrimSpace(input.Hashtag), "#"),
		Status:      status,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
	}
	if err := s.contestRepo.Create(contest); err != nil {
		return nil, err
	}
	return contest, nil
}

// Get 获取比赛
func (s *ContestService) Get(id uint) (*models.Contest, error) {
	contest, err := s.contestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, ErrNotFound
	}
	return contest, nil
}

// GetBySlug 按标识获取比赛
func (s *ContestService) GetBySlug(slug string) (*models.Contest, error) {
	contest, err := s.contestRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, ErrNotFound
	}
	return contest, nil
}

// Update 更新比赛
func (s *ContestService) Update(id uint, input ContestInput) (*models.Contest, error) {
	contest, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != contest.Slug {
		existing, err := s.contestRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != contest.ID {
			return nil, ErrContestSlugTaken
		}
		contest.Slug = slug
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		contest.Title = title
	}
	contest.Description = input.Description
	if hashtag := strings.TrimSpace(input.Hashtag); hashtag != "" {
		contest.Hashtag = strings.TrimPrefix(hashtag, "#")
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		contest.Status = status
	}
	contest.StartAt = input.StartAt
	contest.EndAt = input.EndAt

	if err := s.contestRepo.Update(contest); err != nil {
		return nil, err
	}
	return contest, nil
}

// Delete 删除比赛
func (s *ContestService) Delete(id uint) error {
	contest, err := s.contestRepo.GetByID(id)
	if err != nil {
		return err
	}
	if contest == nil {
		return ErrNotFound
	}
	return s.contestRepo.Delete(id)
}

// List 查询比赛列表
func (s *ContestService) List(filter repository.ContestListFilter) ([]models.Contest, int64, error) {
	return s.contestRepo.List(filter)
}

// ListEntries 查询参赛照片列表
func (s *ContestService) ListEntries(filter repository.PhotoEntryListFilter) ([]models.PhotoEntry, int64, error) {
	return s.contestRepo.ListEntries(filter)
}

// ListApprovedEntries 查询公开展示的参赛照片
func (s *ContestService) ListApprovedEntries(slug string, page, pageSize int) ([]models.PhotoEntry, int64, error) {
	contest, err := s.GetBySlug(slug)
	if err != nil {
		return nil, 0, err
	}
	return s.contestRepo.ListEntries(repository.PhotoEntryListFilter{
		Page:      page,
		PageSize:  pageSize,
		ContestID: contest.ID,
		Status:    constants.PhotoEntryStatusApproved,
	})
}

// ReviewEntry 审核参赛照片
func (s *ContestService) ReviewEntry(entryID uint, status string) (*models.PhotoEntry, error) {
	entry, err := s.contestRepo.GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	target := strings.TrimSpace(status)
	if target != constants.PhotoEntryStatusApproved && target != constants.PhotoEntryStatusRejected {
		return nil, ErrPhotoEntryStatusInvalid
	}
	entry.Status = target
	if err := s.contestRepo.UpdateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RequestInstagramSync 触发异步媒体同步任务
func (s *ContestService) RequestInstagramSync(contestID uint) error {
	contest, err := s.Get(contestID)
	if err != nil {
		return err
	}
	if s.igClient == nil || !s.igClient.Enabled() {
		return ErrInstagramDisabled
	}
	if s.queueClient == nil || !s.queueClient.Enabled() {
		// 队列未启用时直接同步执行
		_, err := s.SyncInstagramMedia(context.Background(), contest.ID)
		return err
	}
	return s.queueClient.EnqueueContestInstagramSync(queue.ContestInstagramSyncPayload{ContestID: contest.ID})
}

// SyncInstagramMedia 拉取话题媒体并写入参赛照片（按媒体ID去重）
func (s *ContestService) SyncInstagramMedia(ctx context.Context, contestID uint) (int, error) {
	contest, err := s.Get(contestID)
	if err != nil {
		return 0, err
	}
	if s.igClient == nil || !s.igClient.Enabled() {
		return 0, ErrInstagramDisabled
	}
	if strings.TrimSpace(contest.Hashtag) == "" {
		return 0, ErrInstagramSyncFailed
	}

	media, err := s.igClient.RecentMediaByHashtag(ctx, contest.Hashtag)
	if err != nil {
		logger.Warnw("instagram_media_fetch_failed", "contest_id", contest.ID, "error", err)
		return 0, ErrInstagramSyncFailed
	}

	created := 0
	for _, item := range media {
		if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.MediaURL) == "" {
			continue
		}
		existing, err := s.contestRepo.GetEntryByInstagramID(contest.ID, item.ID)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		entry := &models.PhotoEntry{
			ContestID:   contest.ID,
			InstagramID: item.ID,
			Username:    item.Username,
			MediaURL:    item.MediaURL,
			Permalink:   item.Permalink,
			Caption:     item.Caption,
			Status:      constants.PhotoEntryStatusPending,
		}
		if !item.Timestamp.IsZero() {
			ts := item.Timestamp
			entry.PostedAt = &ts
		}
		if err := s.contestRepo.CreateEntry(entry); err != nil {
			return created, err
		}
		created++
	}

	logger.Infow("instagram_media_synced", "contest_id", contest.ID, "fetched", len(media), "created", created)
	return created, nil
}
