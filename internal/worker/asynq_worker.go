package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/provider"
	"github.com/staylucky/internal/queue"
	"github.com/staylucky/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskEntrantConfirmEmail, c.handleEntrantConfirmEmail)
	mux.HandleFunc(queue.TaskDrawWinnerEmail, c.handleDrawWinnerEmail)
	mux.HandleFunc(queue.TaskContestInstagramSync, c.handleContestInstagramSync)
}

func (c *Consumer) handleEntrantConfirmEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_entrant_confirm_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.EntrantConfirmEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_entrant_confirm_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.EntrantID == 0 {
		logger.Debugw("worker_entrant_confirm_email_skip_invalid_payload", "entrant_id", payload.EntrantID)
		return nil
	}
	entrant, err := c.EntrantRepo.GetByID(payload.EntrantID)
	if err != nil {
		logger.Warnw("worker_entrant_confirm_email_fetch_failed", "entrant_id", payload.EntrantID, "error", err)
		return err
	}
	if entrant == nil {
		logger.Debugw("worker_entrant_confirm_email_skip_not_found", "entrant_id", payload.EntrantID)
		return nil
	}
	if entrant.Confirmed {
		logger.Debugw("worker_entrant_confirm_email_skip_already_confirmed", "entrant_id", entrant.ID)
		return nil
	}
	if c.EmailService == nil || c.EntrantService == nil {
		logger.Warnw("worker_entrant_confirm_email_skip_service_nil", "entrant_id", entrant.ID)
		return nil
	}
	confirmURL := c.EntrantService.BuildConfirmURL(entrant)
	if err := c.EmailService.SendConfirmEmail(entrant.Email, confirmURL); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_entrant_confirm_email_skip_email_disabled", "entrant_id", entrant.ID)
			return nil
		}
		if errors.Is(err, service.ErrEmailRecipientRejected) {
			logger.Warnw("worker_entrant_confirm_email_recipient_rejected", "entrant_id", entrant.ID, "email", entrant.Email)
			return nil
		}
		logger.Warnw("worker_entrant_confirm_email_send_failed", "entrant_id", entrant.ID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleDrawWinnerEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_draw_winner_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DrawWinnerEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_draw_winner_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.DrawRecordID == 0 {
		logger.Debugw("worker_draw_winner_email_skip_invalid_payload", "draw_record_id", payload.DrawRecordID)
		return nil
	}
	record, err := c.DrawRepo.GetByID(payload.DrawRecordID)
	if err != nil {
		logger.Warnw("worker_draw_winner_email_fetch_failed", "draw_record_id", payload.DrawRecordID, "error", err)
		return err
	}
	if record == nil {
		logger.Debugw("worker_draw_winner_email_skip_not_found", "draw_record_id", payload.DrawRecordID)
		return nil
	}
	receiver := strings.TrimSpace(record.WinnerEmail)
	if receiver == "" {
		logger.Debugw("worker_draw_winner_email_skip_empty_receiver", "draw_record_id", record.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_draw_winner_email_skip_email_service_nil", "draw_record_id", record.ID)
		return nil
	}
	input := service.WinnerEmailInput{}
	if record.Promotion != nil {
		input.PrizeName = record.Promotion.PrizeName
		input.PromotionTitle = record.Promotion.Title
	}
	if err := c.EmailService.SendWinnerEmail(receiver, input); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_draw_winner_email_skip_email_disabled", "draw_record_id", record.ID)
			return nil
		}
		logger.Warnw("worker_draw_winner_email_send_failed",
			"draw_record_id", record.ID,
			"receiver_email", receiver,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleContestInstagramSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_contest_instagram_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ContestInstagramSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contest_instagram_sync_unmarshal_failed", "error", err)
		return err
	}
	if payload.ContestID == 0 {
		logger.Debugw("worker_contest_instagram_sync_skip_invalid_payload", "contest_id", payload.ContestID)
		return nil
	}
	if c.ContestService == nil {
		logger.Warnw("worker_contest_instagram_sync_skip_service_nil", "contest_id", payload.ContestID)
		return nil
	}
	_, err := c.ContestService.SyncInstagramMedia(ctx, payload.ContestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_contest_instagram_sync_skip_not_found", "contest_id", payload.ContestID)
			return nil
		case errors.Is(err, service.ErrInstagramDisabled):
			logger.Debugw("worker_contest_instagram_sync_skip_disabled", "contest_id", payload.ContestID)
			return nil
		default:
			logger.Warnw("worker_contest_instagram_sync_failed", "contest_id", payload.ContestID, "error", err)
			return err
		}
	}
	return nil
}
