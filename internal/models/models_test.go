package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycard-scheduler/internal/shifter"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

func TestTaskScheduleWithResultKeepsRowIDs(t *testing.T) {
	mon := date.New(2024, time.March, 4)
	sched := &TaskSchedule{
		ID:      "sched-1",
		TaskID:  "task-1",
		Version: 3,
		Start:   mon,
		End:     mon.AddDays(1),
		Slots: []ScheduleSlot{
			{ID: "row-a", ScheduleID: "sched-1", DayCardID: "A", Date: mon},
			{ID: "row-b", ScheduleID: "sched-1", DayCardID: "B", Date: mon.AddDays(1)},
		},
	}

	next := sched.WithResult(shifter.Result{
		Start: mon.AddDays(1),
		End:   mon.AddDays(2),
		Slots: []shifter.Slot{{DayCardID: "A", Date: mon.AddDays(1)}, {DayCardID: "B", Date: mon.AddDays(2)}},
	})

	assert.Equal(t, "row-a", next.Slots[0].ID)
	assert.Equal(t, "row-b", next.Slots[1].ID)
	assert.Equal(t, "2024-03-06", next.End.String())
	assert.Equal(t, int64(3), next.Version)
	assert.Equal(t, mon, sched.Slots[0].Date, "original schedule must be untouched")
	assert.Len(t, sched.ShifterSlots(), 2)
}

func TestWorkDaysPolicy(t *testing.T) {
	mon := date.New(2024, time.March, 4)
	wd := &WorkDays{
		WorkingDays: []string{"MONDAY", "TUESDAY"},
		Holidays:    []Holiday{{Name: "Closed", Date: mon.AddDays(1)}},
	}
	policy, err := wd.Policy()
	require.NoError(t, err)
	assert.False(t, policy.IsLocked(mon))
	assert.True(t, policy.IsLocked(mon.AddDays(1)))
	assert.True(t, policy.IsLocked(mon.AddDays(2)))

	wd.WorkingDays = []string{"HOLIDAY"}
	_, err = wd.Policy()
	assert.Error(t, err)
}
