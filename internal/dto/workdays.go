package dto

import "github.com/noah-isme/daycard-scheduler/pkg/date"

// HolidayRequest is one named holiday in a policy update.
type HolidayRequest struct {
	Name string    `json:"name" validate:"required,max=120"`
	Date date.Date `json:"date" validate:"required"`
}

// UpdateWorkDaysRequest replaces a project's work-days policy.
type UpdateWorkDaysRequest struct {
	WorkingDays               []string         `json:"workingDays" validate:"max=7,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	Holidays                  []HolidayRequest `json:"holidays" validate:"max=1000,dive"`
	AllowWorkOnNonWorkingDays bool             `json:"allowWorkOnNonWorkingDays"`
	Version                   int64            `json:"version" validate:"min=0"`
}

// DateCheckResponse answers whether a date can carry work.
type DateCheckResponse struct {
	Date              date.Date `json:"date"`
	Locked            bool      `json:"locked"`
	NextAvailableDate date.Date `json:"nextAvailableDate"`
}
