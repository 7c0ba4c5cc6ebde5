package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/daycard-scheduler/internal/models"
)

// ShiftLogRepository stores the audit trail of schedule moves.
type ShiftLogRepository struct {
	db *sqlx.DB
}

// NewShiftLogRepository constructs the repository.
func NewShiftLogRepository(db *sqlx.DB) *ShiftLogRepository {
	return &ShiftLogRepository{db: db}
}

// Create inserts a shift log row with generated defaults.
func (r *ShiftLogRepository) Create(ctx context.Context, entry *models.ShiftLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_shift_logs (id, schedule_id, task_id, day_card_id, target_date, changed_slots, changes, actor_id, from_version, to_version, created_at)
VALUES (:id, :schedule_id, :task_id, :day_card_id, :target_date, :changed_slots, :changes, :actor_id, :from_version, :to_version, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create shift log: %w", err)
	}
	return nil
}

// ListByTask returns one page of a task's moves, newest first, and the total count.
func (r *ShiftLogRepository) ListByTask(ctx context.Context, filter models.ShiftLogFilter) ([]models.ShiftLog, int, error) {
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM schedule_shift_logs WHERE task_id = $1`, filter.TaskID); err != nil {
		return nil, 0, fmt.Errorf("count shift logs: %w", err)
	}

	const query = `SELECT id, schedule_id, task_id, day_card_id, target_date, changed_slots, changes, actor_id, from_version, to_version, created_at
FROM schedule_shift_logs WHERE task_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	logs := make([]models.ShiftLog, 0)
	if err := r.db.SelectContext(ctx, &logs, query, filter.TaskID, size, (page-1)*size); err != nil {
		return nil, 0, fmt.Errorf("list shift logs: %w", err)
	}
	return logs, total, nil
}
