package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
	"github.com/noah-isme/daycard-scheduler/pkg/jobs"
)

const shiftAuditJobType = "schedule_shift"

type shiftLogRepository interface {
	Create(ctx context.Context, entry *models.ShiftLog) error
	ListByTask(ctx context.Context, filter models.ShiftLogFilter) ([]models.ShiftLog, int, error)
}

// ShiftAuditConfig sizes the audit worker pool.
type ShiftAuditConfig struct {
	Enabled      bool
	Workers      int
	Retries      int
	RetryDelay   time.Duration
	DrainTimeout time.Duration
}

// ShiftAuditService writes shift log rows off the request path and serves move history.
type ShiftAuditService struct {
	repo    shiftLogRepository
	queue   *jobs.Queue
	logger  *zap.Logger
	enabled bool
}

// NewShiftAuditService constructs the service and its queue. Call Start before recording.
func NewShiftAuditService(repo shiftLogRepository, cfg ShiftAuditConfig, logger *zap.Logger) *ShiftAuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ShiftAuditService{repo: repo, logger: logger, enabled: cfg.Enabled}
	s.queue = jobs.NewQueue("shift-audit", s.handle, jobs.QueueConfig{
		Workers:      cfg.Workers,
		BufferSize:   cfg.Workers * 64,
		MaxRetries:   cfg.Retries,
		RetryDelay:   cfg.RetryDelay,
		DrainTimeout: cfg.DrainTimeout,
		Logger:       logger,
		OnGiveUp: func(job jobs.Job, err error) {
			if entry, ok := job.Payload.(*models.ShiftLog); ok {
				logger.Error("shift log lost",
					zap.String("task_id", entry.TaskID),
					zap.String("day_card_id", entry.DayCardID),
					zap.Int64("to_version", entry.ToVersion),
					zap.Error(err),
				)
			}
		},
	})
	return s
}

// Start launches the audit workers.
func (s *ShiftAuditService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop stops intake and writes the buffered entries; entries that cannot be written in time are logged as lost.
func (s *ShiftAuditService) Stop() {
	s.queue.Stop()
}

// Stats exposes queue counters.
func (s *ShiftAuditService) Stats() jobs.Stats {
	return s.queue.Stats()
}

// Record schedules entry for persistence without blocking the caller.
func (s *ShiftAuditService) Record(entry *models.ShiftLog) {
	if s == nil || !s.enabled || entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	err := s.queue.TryEnqueue(jobs.Job{ID: entry.ID, Type: shiftAuditJobType, Payload: entry})
	if err == nil {
		return
	}
	level := s.logger.Error
	if errors.Is(err, jobs.ErrQueueFull) {
		level = s.logger.Warn
	}
	level("shift log dropped", zap.String("task_id", entry.TaskID), zap.String("day_card_id", entry.DayCardID), zap.Error(err))
}

func (s *ShiftAuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.ShiftLog)
	if !ok {
		s.logger.Error("unexpected shift audit payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.repo.Create(ctx, entry)
}

// History returns one page of the task's shift log.
func (s *ShiftAuditService) History(ctx context.Context, taskID string, query dto.ShiftHistoryQuery) ([]models.ShiftLog, *models.Pagination, error) {
	page, size := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	logs, total, err := s.repo.ListByTask(ctx, models.ShiftLogFilter{TaskID: taskID, Page: page, PageSize: size})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shift history")
	}
	return logs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
