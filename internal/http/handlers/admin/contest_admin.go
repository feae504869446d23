package admin

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/repository"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
)

// GetContests 获取摄影比赛列表
func (h *Handler) GetContests(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.ContestListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	contests, total, err := h.ContestService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "contest fetch failed", err)
		return
	}

	response.SuccessWithPage(c, contests, buildPagination(page, pageSize, total))
}

// GetContest 获取摄影比赛详情
func (h *Handler) GetContest(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	contest, err := h.ContestService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "contest not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "contest fetch failed", err)
		return
	}

	response.Success(c, contest)
}

// CreateContest 创建摄影比赛
func (h *Handler) CreateContest(c *gin.Context) {
	var req service.ContestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	contest, err := h.ContestService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrContestSlugTaken) {
			respondError(c, response.CodeBadRequest, "contest slug already in use", nil)
			return
		}
		respondError(c, response.CodeInternal, "contest create failed", err)
		return
	}

	response.Success(c, contest)
}

// UpdateContest 更新摄影比赛
func (h *Handler) UpdateContest(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.ContestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	contest, err := h.ContestService.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "contest not found", nil)
		case errors.Is(err, service.ErrContestSlugTaken):
			respondError(c, response.CodeBadRequest, "contest slug already in use", nil)
		default:
			respondError(c, response.CodeInternal, "contest update failed", err)
		}
		return
	}

	response.Success(c, contest)
}

// DeleteContest 删除摄影比赛（软删除）
func (h *Handler) DeleteContest(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.ContestService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "contest not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "contest delete failed", err)
		return
	}

	response.Success(c, nil)
}

// GetContestEntries 获取参赛照片列表
func (h *Handler) GetContestEntries(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, pageSize := parsePageQuery(c)
	filter := repository.PhotoEntryListFilter{
		Page:      page,
		PageSize:  pageSize,
		ContestID: id,
		Status:    strings.TrimSpace(c.Query("status")),
		Username:  strings.TrimSpace(c.Query("username")),
	}

	entries, total, err := h.ContestService.ListEntries(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "photo entry fetch failed", err)
		return
	}

	response.SuccessWithPage(c, entries, buildPagination(page, pageSize, total))
}

// SyncContestInstagram 触发 Instagram 媒体同步
func (h *Handler) SyncContestInstagram(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.ContestService.RequestInstagramSync(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "contest not found", nil)
		case errors.Is(err, service.ErrInstagramDisabled):
			respondError(c, response.CodeBadRequest, "instagram integration is disabled", nil)
		case errors.Is(err, service.ErrInstagramSyncFailed):
			respondError(c, response.CodeInternal, "instagram sync failed", err)
		default:
			respondError(c, response.CodeInternal, "instagram sync failed", err)
		}
		return
	}

	response.Success(c, nil)
}

// ReviewPhotoEntryRequest 参赛照片审核请求
type ReviewPhotoEntryRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReviewPhotoEntry 审核参赛照片
func (h *Handler) ReviewPhotoEntry(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req ReviewPhotoEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	entry, err := h.ContestService.ReviewEntry(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "photo entry not found", nil)
		case errors.Is(err, service.ErrPhotoEntryStatusInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "photo entry review failed", err)
		}
		return
	}

	response.Success(c, entry)
}
