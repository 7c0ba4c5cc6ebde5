package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	"github.com/noah-isme/daycard-scheduler/internal/repository"
	"github.com/noah-isme/daycard-scheduler/internal/workday"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
)

type workDaysRepository interface {
	GetByProject(ctx context.Context, projectID string) (*models.WorkDays, error)
	Save(ctx context.Context, wd *models.WorkDays, expectedVersion int64) error
}

// WorkDaysDefaults is the policy served for projects that never stored one.
type WorkDaysDefaults struct {
	WorkingDays               []string
	AllowWorkOnNonWorkingDays bool
	CacheTTL                  time.Duration
}

// WorkDaysService reads and maintains project work-days policies.
type WorkDaysService struct {
	repo      workDaysRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	defaults  WorkDaysDefaults
}

// NewWorkDaysService constructs the service. cache and metrics may be nil.
func NewWorkDaysService(repo workDaysRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, defaults WorkDaysDefaults) *WorkDaysService {
	if validate == nil {
		validate = newValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkDaysService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, defaults: defaults}
}

func workDaysCacheKey(projectID string) string {
	return "workdays:" + projectID
}

// Get returns the project's policy, falling back to the configured default when none is stored.
func (s *WorkDaysService) Get(ctx context.Context, projectID string) (*models.WorkDays, error) {
	key := workDaysCacheKey(projectID)
	var cached models.WorkDays
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	start := time.Now()
	wd, err := s.repo.GetByProject(ctx, projectID)
	s.metrics.ObserveDBQuery("workdays_get", time.Since(start))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load work days")
		}
		wd = &models.WorkDays{
			ProjectID:                 projectID,
			WorkingDays:               pq.StringArray(append([]string(nil), s.defaults.WorkingDays...)),
			AllowWorkOnNonWorkingDays: s.defaults.AllowWorkOnNonWorkingDays,
			Holidays:                  []models.Holiday{},
		}
	}

	_ = s.cache.Set(ctx, key, wd, s.defaults.CacheTTL)
	return wd, nil
}

// Policy returns the project's working-day predicate.
func (s *WorkDaysService) Policy(ctx context.Context, projectID string) (*workday.Policy, error) {
	wd, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	policy, err := wd.Policy()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWorkDays.Code, appErrors.ErrInvalidWorkDays.Status, "stored work days are invalid")
	}
	return policy, nil
}

// Update replaces the project's policy when req.Version matches the stored version.
func (s *WorkDaysService) Update(ctx context.Context, projectID string, req dto.UpdateWorkDaysRequest, actorID string) (*models.WorkDays, error) {
	for i, label := range req.WorkingDays {
		req.WorkingDays[i] = strings.ToUpper(strings.TrimSpace(label))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work days payload")
	}

	wd := &models.WorkDays{
		ProjectID:                 projectID,
		WorkingDays:               dedupeLabels(req.WorkingDays),
		AllowWorkOnNonWorkingDays: req.AllowWorkOnNonWorkingDays,
		Holidays:                  make([]models.Holiday, 0, len(req.Holidays)),
	}
	if actorID != "" {
		wd.UpdatedBy = &actorID
	}
	seen := make(map[date.Date]struct{}, len(req.Holidays))
	for _, h := range req.Holidays {
		if _, dup := seen[h.Date]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("holiday %s listed more than once", h.Date))
		}
		seen[h.Date] = struct{}{}
		wd.Holidays = append(wd.Holidays, models.Holiday{Name: strings.TrimSpace(h.Name), Date: h.Date})
	}

	policy, err := wd.Policy()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work days payload")
	}
	if err := policy.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWorkDays.Code, appErrors.ErrInvalidWorkDays.Status, appErrors.ErrInvalidWorkDays.Message)
	}

	start := time.Now()
	err = s.repo.Save(ctx, wd, req.Version)
	s.metrics.ObserveDBQuery("workdays_save", time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, appErrors.Clone(appErrors.ErrVersionConflict, "work days were modified by another request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save work days")
	}

	_ = s.cache.Invalidate(ctx, workDaysCacheKey(projectID))
	s.logger.Info("work days updated",
		zap.String("project_id", projectID),
		zap.Strings("working_days", wd.WorkingDays),
		zap.Int("holidays", len(wd.Holidays)),
		zap.Int64("version", wd.Version),
	)
	return wd, nil
}

// CheckDate reports whether d is locked for the project and the first date work could use.
func (s *WorkDaysService) CheckDate(ctx context.Context, projectID string, d date.Date) (*dto.DateCheckResponse, error) {
	if d.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	policy, err := s.Policy(ctx, projectID)
	if err != nil {
		return nil, err
	}
	next, err := policy.NextAvailable(d)
	if err != nil {
		return nil, mapPolicyError(err)
	}
	return &dto.DateCheckResponse{Date: d, Locked: policy.IsLocked(d), NextAvailableDate: next}, nil
}

func mapPolicyError(err error) error {
	switch {
	case errors.Is(err, workday.ErrNoWorkingDays):
		return appErrors.Wrap(err, appErrors.ErrInvalidWorkDays.Code, appErrors.ErrInvalidWorkDays.Status, appErrors.ErrInvalidWorkDays.Message)
	case errors.Is(err, workday.ErrLookaheadExceeded):
		return appErrors.Wrap(err, appErrors.ErrInvalidWorkDays.Code, appErrors.ErrInvalidWorkDays.Status, "no working day found within the lookahead window")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate work days")
	}
}

func dedupeLabels(labels []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
