package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/daycard-scheduler/internal/models"
)

// WorkDaysRepository persists per-project work-days policies and their holidays.
type WorkDaysRepository struct {
	db *sqlx.DB
}

// NewWorkDaysRepository constructs the repository.
func NewWorkDaysRepository(db *sqlx.DB) *WorkDaysRepository {
	return &WorkDaysRepository{db: db}
}

// GetByProject returns the stored policy of a project. sql.ErrNoRows means none is stored.
func (r *WorkDaysRepository) GetByProject(ctx context.Context, projectID string) (*models.WorkDays, error) {
	const query = `SELECT project_id, working_days, allow_work_on_non_working_days, version, updated_by, updated_at
FROM project_work_days WHERE project_id = $1`
	var wd models.WorkDays
	if err := r.db.GetContext(ctx, &wd, query, projectID); err != nil {
		return nil, err
	}

	const holidaysQuery = `SELECT id, project_id, name, holiday_date
FROM project_holidays WHERE project_id = $1 ORDER BY holiday_date ASC`
	if err := r.db.SelectContext(ctx, &wd.Holidays, holidaysQuery, projectID); err != nil {
		return nil, fmt.Errorf("list project holidays: %w", err)
	}
	return &wd, nil
}

// Save upserts the policy and replaces its holidays. expectedVersion 0 means the
// project has no stored policy yet.
func (r *WorkDaysRepository) Save(ctx context.Context, wd *models.WorkDays, expectedVersion int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin work days tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	wd.UpdatedAt = time.Now().UTC()
	const upsert = `INSERT INTO project_work_days (project_id, working_days, allow_work_on_non_working_days, version, updated_by, updated_at)
VALUES ($1, $2, $3, 1, $4, $5)
ON CONFLICT (project_id) DO UPDATE SET
	working_days = EXCLUDED.working_days,
	allow_work_on_non_working_days = EXCLUDED.allow_work_on_non_working_days,
	version = project_work_days.version + 1,
	updated_by = EXCLUDED.updated_by,
	updated_at = EXCLUDED.updated_at
WHERE project_work_days.version = $6
RETURNING version`
	var version int64
	if err = tx.GetContext(ctx, &version, upsert, wd.ProjectID, wd.WorkingDays, wd.AllowWorkOnNonWorkingDays, wd.UpdatedBy, wd.UpdatedAt, expectedVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrVersionMismatch
			return err
		}
		return fmt.Errorf("upsert work days: %w", err)
	}
	// A fresh insert ignores the WHERE clause; a caller expecting a stored row is stale.
	if version == 1 && expectedVersion != 0 {
		err = ErrVersionMismatch
		return err
	}
	wd.Version = version

	if _, err = tx.ExecContext(ctx, `DELETE FROM project_holidays WHERE project_id = $1`, wd.ProjectID); err != nil {
		return fmt.Errorf("clear project holidays: %w", err)
	}
	const insertHoliday = `INSERT INTO project_holidays (id, project_id, name, holiday_date)
VALUES (:id, :project_id, :name, :holiday_date)`
	for i := range wd.Holidays {
		h := &wd.Holidays[i]
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		h.ProjectID = wd.ProjectID
		if _, err = tx.NamedExecContext(ctx, insertHoliday, h); err != nil {
			return fmt.Errorf("insert project holiday: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit work days: %w", err)
	}
	return nil
}
