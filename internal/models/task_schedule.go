package models

import (
	"time"

	"github.com/noah-isme/daycard-scheduler/internal/shifter"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

// TaskSchedule is the dated backlog of day cards for one task.
type TaskSchedule struct {
	ID        string         `db:"id" json:"id"`
	TaskID    string         `db:"task_id" json:"taskId"`
	ProjectID string         `db:"project_id" json:"projectId"`
	Version   int64          `db:"version" json:"version"`
	Start     date.Date      `db:"start_date" json:"start"`
	End       date.Date      `db:"end_date" json:"end"`
	Slots     []ScheduleSlot `db:"-" json:"slots"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// ScheduleSlot associates one day card with one date of a schedule.
type ScheduleSlot struct {
	ID         string    `db:"id" json:"-"`
	ScheduleID string    `db:"schedule_id" json:"-"`
	DayCardID  string    `db:"day_card_id" json:"dayCardId"`
	Date       date.Date `db:"slot_date" json:"date"`
}

// ShifterSlots converts persisted slots into shifter input.
func (s *TaskSchedule) ShifterSlots() []shifter.Slot {
	out := make([]shifter.Slot, len(s.Slots))
	for i, slot := range s.Slots {
		out[i] = shifter.Slot{DayCardID: slot.DayCardID, Date: slot.Date}
	}
	return out
}

// WithResult returns a copy of the schedule carrying the shifted slots and bounds.
// Slot row ids are kept per day card.
func (s *TaskSchedule) WithResult(res shifter.Result) *TaskSchedule {
	ids := make(map[string]string, len(s.Slots))
	for _, slot := range s.Slots {
		ids[slot.DayCardID] = slot.ID
	}
	next := *s
	next.Start, next.End = res.Start, res.End
	next.Slots = make([]ScheduleSlot, len(res.Slots))
	for i, slot := range res.Slots {
		next.Slots[i] = ScheduleSlot{
			ID:         ids[slot.DayCardID],
			ScheduleID: s.ID,
			DayCardID:  slot.DayCardID,
			Date:       slot.Date,
		}
	}
	return &next
}
