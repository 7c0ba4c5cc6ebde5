package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/daycard-scheduler/internal/models"
)

// ErrVersionMismatch is returned when an optimistic version check fails.
var ErrVersionMismatch = errors.New("version mismatch")

// TaskScheduleRepository persists task schedules and their day-card slots.
type TaskScheduleRepository struct {
	db *sqlx.DB
}

// NewTaskScheduleRepository constructs the repository.
func NewTaskScheduleRepository(db *sqlx.DB) *TaskScheduleRepository {
	return &TaskScheduleRepository{db: db}
}

func (r *TaskScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// BeginTxx starts a transaction for multi-statement schedule updates.
func (r *TaskScheduleRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// FindByTaskID loads a task's schedule with slots ordered by date.
func (r *TaskScheduleRepository) FindByTaskID(ctx context.Context, taskID string) (*models.TaskSchedule, error) {
	const query = `SELECT id, task_id, project_id, version, start_date, end_date, created_at, updated_at
FROM task_schedules WHERE task_id = $1`
	var schedule models.TaskSchedule
	if err := r.db.GetContext(ctx, &schedule, query, taskID); err != nil {
		return nil, err
	}

	const slotsQuery = `SELECT id, schedule_id, day_card_id, slot_date
FROM schedule_slots WHERE schedule_id = $1 ORDER BY slot_date ASC`
	if err := r.db.SelectContext(ctx, &schedule.Slots, slotsQuery, schedule.ID); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return &schedule, nil
}

// UpdateBounds bumps the schedule version and rewrites its start/end when the stored
// version still equals expectedVersion.
func (r *TaskScheduleRepository) UpdateBounds(ctx context.Context, exec sqlx.ExtContext, schedule *models.TaskSchedule, expectedVersion int64) error {
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `UPDATE task_schedules SET start_date = $1, end_date = $2, version = version + 1, updated_at = $3
WHERE id = $4 AND version = $5 RETURNING version`
	var version int64
	if err := sqlx.GetContext(ctx, target, &version, query, schedule.Start, schedule.End, now, schedule.ID, expectedVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVersionMismatch
		}
		return fmt.Errorf("update task schedule bounds: %w", err)
	}
	schedule.Version = version
	schedule.UpdatedAt = now
	return nil
}

// ReassignSlots writes new dates for the given day cards in one statement so the
// (schedule_id, slot_date) uniqueness holds at commit time.
func (r *TaskScheduleRepository) ReassignSlots(ctx context.Context, exec sqlx.ExtContext, scheduleID string, slots []models.ScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)

	cards := make([]string, len(slots))
	dates := make([]string, len(slots))
	for i, slot := range slots {
		cards[i] = slot.DayCardID
		dates[i] = slot.Date.String()
	}

	const query = `UPDATE schedule_slots AS s SET slot_date = v.slot_date
FROM (SELECT unnest($1::text[]) AS day_card_id, unnest($2::date[]) AS slot_date) AS v
WHERE s.schedule_id = $3 AND s.day_card_id = v.day_card_id`
	result, err := target.ExecContext(ctx, query, pq.Array(cards), pq.Array(dates), scheduleID)
	if err != nil {
		return fmt.Errorf("reassign schedule slots: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule slots rows affected: %w", err)
	}
	if affected != int64(len(slots)) {
		return fmt.Errorf("reassign schedule slots: updated %d of %d slots", affected, len(slots))
	}
	return nil
}
