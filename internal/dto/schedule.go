package dto

import (
	"github.com/noah-isme/daycard-scheduler/internal/models"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

// MoveDayCardRequest moves one day card to a new date within its task schedule.
type MoveDayCardRequest struct {
	DayCardID string    `json:"dayCardId" validate:"required"`
	Date      date.Date `json:"date" validate:"required"`
	Version   int64     `json:"version" validate:"min=0"`
}

// SlotChange describes a day card whose date changed during a move.
type SlotChange struct {
	DayCardID string    `json:"dayCardId"`
	From      date.Date `json:"from"`
	To        date.Date `json:"to"`
}

// MoveDayCardResponse returns the resulting schedule and which cards moved.
type MoveDayCardResponse struct {
	Mode     string               `json:"mode"`
	Schedule *models.TaskSchedule `json:"schedule"`
	Changes  []SlotChange         `json:"changes"`
}

// ScheduleExportFormat enumerates supported download formats.
type ScheduleExportFormat string

const (
	ScheduleExportCSV ScheduleExportFormat = "csv"
	ScheduleExportPDF ScheduleExportFormat = "pdf"
)

// ScheduleExport is a rendered schedule file.
type ScheduleExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ShiftHistoryQuery pages through a task's move history.
type ShiftHistoryQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}
