package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/daycard-scheduler/internal/workday"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

// WorkDays is the persisted work-days policy of a project.
type WorkDays struct {
	ProjectID                 string         `db:"project_id" json:"projectId"`
	WorkingDays               pq.StringArray `db:"working_days" json:"workingDays"`
	AllowWorkOnNonWorkingDays bool           `db:"allow_work_on_non_working_days" json:"allowWorkOnNonWorkingDays"`
	Holidays                  []Holiday      `db:"-" json:"holidays"`
	Version                   int64          `db:"version" json:"version"`
	UpdatedBy                 *string        `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt                 time.Time      `db:"updated_at" json:"updatedAt"`
}

// Holiday is a named non-working date of a project.
type Holiday struct {
	ID        string    `db:"id" json:"-"`
	ProjectID string    `db:"project_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Date      date.Date `db:"holiday_date" json:"date"`
}

// Policy builds the working-day predicate for this configuration.
func (w *WorkDays) Policy() (*workday.Policy, error) {
	holidays := make([]workday.Holiday, len(w.Holidays))
	for i, h := range w.Holidays {
		holidays[i] = workday.Holiday{Name: h.Name, Date: h.Date}
	}
	return workday.NewPolicyFromLabels(w.WorkingDays, holidays, w.AllowWorkOnNonWorkingDays)
}
