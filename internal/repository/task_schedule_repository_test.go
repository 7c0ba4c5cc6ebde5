package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycard-scheduler/internal/models"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTaskScheduleRepositoryFindByTaskID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskScheduleRepository(db)

	mon := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM task_schedules WHERE task_id = $1")).
		WithArgs("task-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "project_id", "version", "start_date", "end_date", "created_at", "updated_at"}).
			AddRow("sched-1", "task-1", "proj-1", 4, mon, mon.AddDate(0, 0, 1), time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_slots WHERE schedule_id = $1 ORDER BY slot_date ASC")).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "day_card_id", "slot_date"}).
			AddRow("slot-1", "sched-1", "A", mon).
			AddRow("slot-2", "sched-1", "B", mon.AddDate(0, 0, 1)))

	schedule, err := repo.FindByTaskID(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), schedule.Version)
	assert.Equal(t, "2024-03-04", schedule.Start.String())
	require.Len(t, schedule.Slots, 2)
	assert.Equal(t, "2024-03-05", schedule.Slots[1].Date.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskScheduleRepositoryFindByTaskIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskScheduleRepository(db)

	mock.ExpectQuery("FROM task_schedules").WithArgs("task-x").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByTaskID(context.Background(), "task-x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTaskScheduleRepositoryUpdateBounds(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskScheduleRepository(db)

	schedule := &models.TaskSchedule{ID: "sched-1", Start: date.New(2024, 3, 5), End: date.New(2024, 3, 7)}
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE task_schedules SET start_date = $1, end_date = $2, version = version + 1")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "sched-1", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(5))

	require.NoError(t, repo.UpdateBounds(context.Background(), nil, schedule, 4))
	assert.Equal(t, int64(5), schedule.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskScheduleRepositoryUpdateBoundsStale(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskScheduleRepository(db)

	mock.ExpectQuery("UPDATE task_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	err := repo.UpdateBounds(context.Background(), nil, &models.TaskSchedule{ID: "sched-1"}, 2)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestTaskScheduleRepositoryReassignSlots(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_slots AS s SET slot_date = v.slot_date")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "sched-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	err = repo.ReassignSlots(context.Background(), tx, "sched-1", []models.ScheduleSlot{
		{DayCardID: "A", Date: date.New(2024, 3, 5)},
		{DayCardID: "B", Date: date.New(2024, 3, 6)},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskScheduleRepositoryReassignSlotsPartial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskScheduleRepository(db)

	mock.ExpectExec("UPDATE schedule_slots").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReassignSlots(context.Background(), nil, "sched-1", []models.ScheduleSlot{
		{DayCardID: "A", Date: date.New(2024, 3, 5)},
		{DayCardID: "B", Date: date.New(2024, 3, 6)},
	})
	assert.Error(t, err)
}
