// Package workday answers whether a calendar date can carry scheduled work.
package workday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

var (
	// ErrNoWorkingDays is returned when a policy locks every date forever.
	ErrNoWorkingDays = errors.New("work days policy has no working days and does not allow work on non-working days")
	// ErrLookaheadExceeded is returned when no working day exists inside the lookahead window.
	ErrLookaheadExceeded = errors.New("no available working day within lookahead window")
)

var weekdayLabels = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

// ParseWeekday maps a label such as "MONDAY" (case-insensitive) to a weekday.
func ParseWeekday(label string) (time.Weekday, error) {
	wd, ok := weekdayLabels[strings.ToUpper(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", label)
	}
	return wd, nil
}

// Label returns the upper-case label used on the wire for wd.
func Label(wd time.Weekday) string {
	return strings.ToUpper(wd.String())
}

// Holiday is a named non-working date.
type Holiday struct {
	Name string    `json:"name" yaml:"name"`
	Date date.Date `json:"date" yaml:"date"`
}

// Policy is the work-days configuration of a project.
type Policy struct {
	workingDays [7]bool
	holidays    map[date.Date]struct{}
	allowAll    bool
	lookahead   int
}

// NewPolicy builds a policy from working weekdays, holidays and the override flag.
func NewPolicy(workingDays []time.Weekday, holidays []Holiday, allowWorkOnNonWorkingDays bool) *Policy {
	p := &Policy{
		holidays: make(map[date.Date]struct{}, len(holidays)),
		allowAll: allowWorkOnNonWorkingDays,
	}
	for _, wd := range workingDays {
		if wd >= time.Sunday && wd <= time.Saturday {
			p.workingDays[wd] = true
		}
	}
	for _, h := range holidays {
		p.holidays[date.FromTime(h.Date.Time)] = struct{}{}
	}
	// The longest run of locked days is bounded by one non-working week per holiday.
	p.lookahead = 7 * (len(p.holidays) + 1)
	return p
}

// NewPolicyFromLabels parses weekday labels and builds a policy.
func NewPolicyFromLabels(labels []string, holidays []Holiday, allowWorkOnNonWorkingDays bool) (*Policy, error) {
	days := make([]time.Weekday, 0, len(labels))
	for _, label := range labels {
		wd, err := ParseWeekday(label)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return NewPolicy(days, holidays, allowWorkOnNonWorkingDays), nil
}

// AllowsWorkOnNonWorkingDays reports the override flag.
func (p *Policy) AllowsWorkOnNonWorkingDays() bool {
	return p.allowAll
}

// WorkingDays returns the working weekdays in Monday-first order.
func (p *Policy) WorkingDays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		if p.workingDays[wd] {
			out = append(out, wd)
		}
	}
	return out
}

// Validate returns ErrNoWorkingDays when no date could ever be used.
func (p *Policy) Validate() error {
	if p.allowAll {
		return nil
	}
	for _, ok := range p.workingDays {
		if ok {
			return nil
		}
	}
	return ErrNoWorkingDays
}

// IsLocked reports whether d is a non-working date. It is always false when the
// policy allows work on non-working days.
func (p *Policy) IsLocked(d date.Date) bool {
	if p.allowAll {
		return false
	}
	if !p.workingDays[d.Weekday()] {
		return true
	}
	_, holiday := p.holidays[date.FromTime(d.Time)]
	return holiday
}

// NextAvailable returns the earliest date on or after d that is not locked.
func (p *Policy) NextAvailable(d date.Date) (date.Date, error) {
	if err := p.Validate(); err != nil {
		return date.Date{}, err
	}
	candidate := d
	for i := 0; i <= p.lookahead; i++ {
		if !p.IsLocked(candidate) {
			return candidate, nil
		}
		candidate = candidate.AddDays(1)
	}
	return date.Date{}, fmt.Errorf("%w: starting %s after %d days", ErrLookaheadExceeded, d, p.lookahead)
}
