package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	"github.com/noah-isme/daycard-scheduler/internal/repository"
	"github.com/noah-isme/daycard-scheduler/internal/shifter"
	"github.com/noah-isme/daycard-scheduler/internal/workday"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
)

// Response modes of a move request.
const (
	MoveModeApplied = "applied"
	MoveModePreview = "preview"
)

type taskScheduleRepository interface {
	FindByTaskID(ctx context.Context, taskID string) (*models.TaskSchedule, error)
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	UpdateBounds(ctx context.Context, exec sqlx.ExtContext, schedule *models.TaskSchedule, expectedVersion int64) error
	ReassignSlots(ctx context.Context, exec sqlx.ExtContext, scheduleID string, slots []models.ScheduleSlot) error
}

type workDaysPolicySource interface {
	Policy(ctx context.Context, projectID string) (*workday.Policy, error)
}

type shiftRecorder interface {
	Record(entry *models.ShiftLog)
}

// ScheduleService applies day-card moves to persisted task schedules.
type ScheduleService struct {
	repo      taskScheduleRepository
	policies  workDaysPolicySource
	audit     shiftRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service. audit and metrics may be nil.
func NewScheduleService(repo taskScheduleRepository, policies workDaysPolicySource, audit shiftRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = newValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, policies: policies, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// Get loads a task's schedule.
func (s *ScheduleService) Get(ctx context.Context, taskID string) (*models.TaskSchedule, error) {
	start := time.Now()
	schedule, err := s.repo.FindByTaskID(ctx, taskID)
	s.metrics.ObserveDBQuery("task_schedule_get", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task schedule")
	}
	return schedule, nil
}

// Preview computes the outcome of a move without persisting it.
func (s *ScheduleService) Preview(ctx context.Context, taskID string, req dto.MoveDayCardRequest) (*dto.MoveDayCardResponse, error) {
	plan, err := s.plan(ctx, taskID, req, req.Version != 0)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordShift(ShiftOutcomePreview, len(plan.changes), plan.elapsed)
	return &dto.MoveDayCardResponse{Mode: MoveModePreview, Schedule: plan.next, Changes: plan.changes}, nil
}

// Move applies a move and persists the shifted schedule with the version incremented.
func (s *ScheduleService) Move(ctx context.Context, taskID string, req dto.MoveDayCardRequest, actorID string) (*dto.MoveDayCardResponse, error) {
	plan, err := s.plan(ctx, taskID, req, true)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			s.metrics.RecordShift(ShiftOutcomeConflict, 0, 0)
			return nil, appErrors.Clone(appErrors.ErrVersionConflict, "task schedule was modified by another request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save task schedule")
	}
	s.metrics.RecordShift(ShiftOutcomeApplied, len(plan.changes), plan.elapsed)

	s.recordAudit(plan, req, actorID)
	s.logger.Info("day card moved",
		zap.String("task_id", taskID),
		zap.String("day_card_id", req.DayCardID),
		zap.String("target_date", req.Date.String()),
		zap.Int("changed_slots", len(plan.changes)),
		zap.Int64("version", plan.next.Version),
	)
	return &dto.MoveDayCardResponse{Mode: MoveModeApplied, Schedule: plan.next, Changes: plan.changes}, nil
}

type movePlan struct {
	current *models.TaskSchedule
	next    *models.TaskSchedule
	changes []dto.SlotChange
	moved   []models.ScheduleSlot
	elapsed time.Duration
}

func (s *ScheduleService) plan(ctx context.Context, taskID string, req dto.MoveDayCardRequest, checkVersion bool) (*movePlan, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordShift(ShiftOutcomeRejected, 0, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}

	current, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if checkVersion && req.Version != current.Version {
		s.metrics.RecordShift(ShiftOutcomeConflict, 0, 0)
		return nil, appErrors.Clone(appErrors.ErrVersionConflict, fmt.Sprintf("task schedule is at version %d, request was based on %d", current.Version, req.Version))
	}

	policy, err := s.policies.Policy(ctx, current.ProjectID)
	if err != nil {
		return nil, err
	}
	if policy.IsLocked(req.Date) {
		s.metrics.RecordShift(ShiftOutcomeRejected, 0, 0)
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a working day", req.Date))
	}

	before := current.ShifterSlots()
	started := time.Now()
	result, err := shifter.Shift(before, req.DayCardID, req.Date, policy)
	elapsed := time.Since(started)
	if err != nil {
		s.metrics.RecordShift(ShiftOutcomeRejected, 0, 0)
		return nil, mapShiftError(err)
	}

	next := current.WithResult(result)
	original := make(map[string]models.ScheduleSlot, len(current.Slots))
	for _, slot := range current.Slots {
		original[slot.DayCardID] = slot
	}
	changes := make([]dto.SlotChange, 0)
	moved := make([]models.ScheduleSlot, 0)
	for _, slot := range result.Changed(before) {
		changes = append(changes, dto.SlotChange{DayCardID: slot.DayCardID, From: original[slot.DayCardID].Date, To: slot.Date})
		moved = append(moved, models.ScheduleSlot{ScheduleID: current.ID, DayCardID: slot.DayCardID, Date: slot.Date})
	}

	return &movePlan{current: current, next: next, changes: changes, moved: moved, elapsed: elapsed}, nil
}

func (s *ScheduleService) persist(ctx context.Context, plan *movePlan) (err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDBQuery("task_schedule_move", time.Since(started)) }()

	tx, err := s.repo.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.UpdateBounds(ctx, tx, plan.next, plan.current.Version); err != nil {
		return err
	}
	if err = s.repo.ReassignSlots(ctx, tx, plan.current.ID, plan.moved); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit move tx: %w", err)
	}
	return nil
}

func (s *ScheduleService) recordAudit(plan *movePlan, req dto.MoveDayCardRequest, actorID string) {
	if s.audit == nil {
		return
	}
	changes, err := json.Marshal(plan.changes)
	if err != nil {
		s.logger.Warn("encode shift changes", zap.Error(err))
		changes = []byte("[]")
	}
	entry := &models.ShiftLog{
		ScheduleID:   plan.current.ID,
		TaskID:       plan.current.TaskID,
		DayCardID:    req.DayCardID,
		TargetDate:   req.Date,
		ChangedSlots: len(plan.changes),
		Changes:      changes,
		FromVersion:  plan.current.Version,
		ToVersion:    plan.next.Version,
		CreatedAt:    time.Now().UTC(),
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	s.audit.Record(entry)
}

func mapShiftError(err error) error {
	switch {
	case errors.Is(err, shifter.ErrDayCardNotFound):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "day card is not part of this schedule")
	case errors.Is(err, shifter.ErrDuplicateSlotDate):
		return appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, "task schedule is inconsistent")
	default:
		return mapPolicyError(err)
	}
}
