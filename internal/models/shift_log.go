package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

// ShiftLog records one persisted day-card move.
type ShiftLog struct {
	ID           string         `db:"id" json:"id"`
	ScheduleID   string         `db:"schedule_id" json:"scheduleId"`
	TaskID       string         `db:"task_id" json:"taskId"`
	DayCardID    string         `db:"day_card_id" json:"dayCardId"`
	TargetDate   date.Date      `db:"target_date" json:"targetDate"`
	ChangedSlots int            `db:"changed_slots" json:"changedSlots"`
	Changes      types.JSONText `db:"changes" json:"changes"`
	ActorID      *string        `db:"actor_id" json:"actorId,omitempty"`
	FromVersion  int64          `db:"from_version" json:"fromVersion"`
	ToVersion    int64          `db:"to_version" json:"toVersion"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// ShiftLogFilter pages through a task's move history.
type ShiftLogFilter struct {
	TaskID   string
	Page     int
	PageSize int
}
