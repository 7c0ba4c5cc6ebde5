// Package shifter recomputes day-card slot dates after one day card is moved.
//
// Cascades only push dates forward. Slots are visited in ascending order of their
// original date; a slot whose original date falls inside [target, frontier] is
// contested and re-dated to the first unlocked date after the frontier, which then
// becomes the new frontier. Uncontested slots keep their date.
package shifter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

var (
	// ErrDayCardNotFound is returned when the moved day card has no slot in the schedule.
	ErrDayCardNotFound = errors.New("day card not found in schedule")
	// ErrDuplicateSlotDate is returned when the input schedule already books a date twice.
	ErrDuplicateSlotDate = errors.New("schedule contains two slots on the same date")
	// ErrEmptySchedule is returned when there are no slots to shift. It matches
	// ErrDayCardNotFound, since no day card can be found in an empty schedule.
	ErrEmptySchedule = fmt.Errorf("schedule has no slots: %w", ErrDayCardNotFound)
)

// Slot assigns one day card to one date.
type Slot struct {
	DayCardID string    `json:"dayCardId" yaml:"dayCardId"`
	Date      date.Date `json:"date" yaml:"date"`
}

// Calendar yields the first usable date on or after a given date.
type Calendar interface {
	NextAvailable(d date.Date) (date.Date, error)
}

// Result is the consistent schedule update produced by Shift.
type Result struct {
	Start date.Date `json:"start"`
	End   date.Date `json:"end"`
	Slots []Slot    `json:"slots"`
}

// Changed returns the slots whose date differs from before, in result order.
func (r Result) Changed(before []Slot) []Slot {
	original := make(map[string]date.Date, len(before))
	for _, s := range before {
		original[s.DayCardID] = s.Date
	}
	var changed []Slot
	for _, s := range r.Slots {
		if prev, ok := original[s.DayCardID]; !ok || !prev.SameDay(s.Date) {
			changed = append(changed, s)
		}
	}
	return changed
}

// Shift moves dayCardID to target and cascades contested slots forward.
//
// The input is not modified. The returned slots keep the input order. Preconditions:
// dayCardID must appear in slots and no two input slots may share a date; violations
// are reported as ErrDayCardNotFound (ErrEmptySchedule when there are no slots at all,
// which also matches ErrDayCardNotFound) and ErrDuplicateSlotDate. The target date
// itself is taken as valid even if cal locks it.
func Shift(slots []Slot, dayCardID string, target date.Date, cal Calendar) (Result, error) {
	if len(slots) == 0 {
		return Result{}, ErrEmptySchedule
	}
	if err := checkPreconditions(slots, dayCardID); err != nil {
		return Result{}, err
	}

	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return slots[order[a]].Date.Before(slots[order[b]].Date.Time)
	})

	out := make([]Slot, len(slots))
	copy(out, slots)

	frontier := target
	for _, idx := range order {
		slot := slots[idx]
		switch {
		case slot.DayCardID == dayCardID:
			out[idx].Date = target
			frontier = date.Max(frontier, target)
		case contested(slot.Date, target, frontier):
			next, err := cal.NextAvailable(frontier.AddDays(1))
			if err != nil {
				return Result{}, fmt.Errorf("shift day card %s: %w", slot.DayCardID, err)
			}
			out[idx].Date = next
			frontier = next
		}
	}

	res := Result{Slots: out}
	res.Start, res.End = Bounds(out)
	return res, nil
}

// Bounds returns the minimum and maximum slot dates. Both are zero for no slots.
func Bounds(slots []Slot) (date.Date, date.Date) {
	if len(slots) == 0 {
		return date.Date{}, date.Date{}
	}
	start, end := slots[0].Date, slots[0].Date
	for _, s := range slots[1:] {
		start = date.Min(start, s.Date)
		end = date.Max(end, s.Date)
	}
	return start, end
}

func contested(d, target, frontier date.Date) bool {
	return d.Compare(target) >= 0 && d.Compare(frontier) <= 0
}

func checkPreconditions(slots []Slot, dayCardID string) error {
	found := false
	seen := make(map[string]string, len(slots))
	for _, s := range slots {
		if s.DayCardID == dayCardID {
			found = true
		}
		key := s.Date.String()
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s and %s on %s", ErrDuplicateSlotDate, other, s.DayCardID, key)
		}
		seen[key] = s.DayCardID
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrDayCardNotFound, dayCardID)
	}
	return nil
}
