package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
)

type shiftLogRepoStub struct {
	mu       sync.Mutex
	created  []*models.ShiftLog
	failures int
	filter   models.ShiftLogFilter
	listErr  error
}

func (s *shiftLogRepoStub) Create(_ context.Context, entry *models.ShiftLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("insert failed")
	}
	s.created = append(s.created, entry)
	return nil
}

func (s *shiftLogRepoStub) ListByTask(_ context.Context, filter models.ShiftLogFilter) ([]models.ShiftLog, int, error) {
	s.filter = filter
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return []models.ShiftLog{{ID: "log-1", TaskID: filter.TaskID}}, 41, nil
}

func (s *shiftLogRepoStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

func TestShiftAuditServiceRecordsWithRetry(t *testing.T) {
	repo := &shiftLogRepoStub{failures: 1}
	svc := NewShiftAuditService(repo, ShiftAuditConfig{Enabled: true, Workers: 1, Retries: 2, RetryDelay: 5 * time.Millisecond}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	entry := &models.ShiftLog{TaskID: "task-1", DayCardID: "A"}
	svc.Record(entry)

	assert.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, uint64(1), svc.Stats().Retried)
}

func TestShiftAuditServiceDisabled(t *testing.T) {
	repo := &shiftLogRepoStub{}
	svc := NewShiftAuditService(repo, ShiftAuditConfig{Enabled: false}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Record(&models.ShiftLog{TaskID: "task-1"})
	assert.Equal(t, 0, repo.count())
}

func TestShiftAuditServiceHistoryClampsPaging(t *testing.T) {
	repo := &shiftLogRepoStub{}
	svc := NewShiftAuditService(repo, ShiftAuditConfig{}, nil)

	logs, page, err := svc.History(context.Background(), "task-1", dto.ShiftHistoryQuery{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 100, TotalCount: 41}, *page)
	assert.Equal(t, models.ShiftLogFilter{TaskID: "task-1", Page: 1, PageSize: 100}, repo.filter)

	repo.listErr = errors.New("db down")
	_, _, err = svc.History(context.Background(), "task-1", dto.ShiftHistoryQuery{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestShiftAuditServiceStopPersistsBufferedEntries(t *testing.T) {
	repo := &shiftLogRepoStub{}
	svc := NewShiftAuditService(repo, ShiftAuditConfig{Enabled: true, Workers: 1}, nil)
	svc.Start(context.Background())

	for i := 0; i < 20; i++ {
		svc.Record(&models.ShiftLog{TaskID: "task-1", DayCardID: "A", ToVersion: int64(i + 1)})
	}
	svc.Stop()

	assert.Equal(t, 20, repo.count())
	stats := svc.Stats()
	assert.Equal(t, uint64(20), stats.Processed)
	assert.Zero(t, stats.Abandoned)
	assert.Zero(t, stats.Pending)
}
