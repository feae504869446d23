package queue

import (
	"encoding/json"

	"github.com/staylucky/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskEntrantConfirmEmail 报名确认邮件任务
	TaskEntrantConfirmEmail = constants.TaskEntrantConfirmEmail
	// TaskDrawWinnerEmail 中奖通知邮件任务
	TaskDrawWinnerEmail = constants.TaskDrawWinnerEmail
	// TaskContestInstagramSync Instagram 媒体同步任务
	TaskContestInstagramSync = constants.TaskContestInstagramSync
)

// EntrantConfirmEmailPayload 报名确认邮件任务载荷
type EntrantConfirmEmailPayload struct {
	EntrantID uint `json:"entrant_id"`
}

// DrawWinnerEmailPayload 中奖通知邮件任务载荷
type DrawWinnerEmailPayload struct {
	DrawRecordID uint `json:"draw_record_id"`
}

// ContestInstagramSyncPayload Instagram 同步任务载荷
type ContestInstagramSyncPayload struct {
	ContestID uint `json:"contest_id"`
}

// NewEntrantConfirmEmailTask 创建报名确认邮件任务
func NewEntrantConfirmEmailTask(payload EntrantConfirmEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEntrantConfirmEmail, body), nil
}

// NewDrawWinnerEmailTask 创建中奖通知邮件任务
func NewDrawWinnerEmailTask(payload DrawWinnerEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDrawWinnerEmail, body), nil
}

// NewContestInstagramSyncTask 创建 Instagram 同步任务
func NewContestInstagramSyncTask(payload ContestInstagramSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContestInstagramSync, body), nil
}
