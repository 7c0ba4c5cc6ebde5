package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
	"github.com/noah-isme/daycard-scheduler/pkg/export"
)

type scheduleReader interface {
	Get(ctx context.Context, taskID string) (*models.TaskSchedule, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportService renders task schedules as downloadable files.
type ExportService struct {
	schedules scheduleReader
	csv       tableRenderer
	pdf       tableRenderer
	logger    *zap.Logger
	enabled   bool
}

// NewExportService constructs an ExportService. Nil renderers use the default exporters.
func NewExportService(schedules scheduleReader, enabled bool, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

// ExportSchedule renders the task's slots in date order.
func (s *ExportService) ExportSchedule(ctx context.Context, taskID string, format dto.ScheduleExportFormat) (*dto.ScheduleExport, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "schedule exports are disabled")
	}
	format = dto.ScheduleExportFormat(strings.ToLower(string(format)))
	if format == "" {
		format = dto.ScheduleExportCSV
	}
	if format != dto.ScheduleExportCSV && format != dto.ScheduleExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	schedule, err := s.schedules.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	table := scheduleTable(schedule)

	var (
		body        []byte
		contentType string
	)
	switch format {
	case dto.ScheduleExportPDF:
		body, err = s.pdf.Render(table)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(table)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		s.logger.Error("render schedule export", zap.String("task_id", taskID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule export")
	}

	return &dto.ScheduleExport{
		Filename:    fmt.Sprintf("schedule-%s-v%d.%s", taskID, schedule.Version, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func scheduleTable(schedule *models.TaskSchedule) export.Table {
	table := export.Table{
		Title:   "Task schedule " + schedule.TaskID,
		Headers: []string{"#", "Day card", "Date", "Weekday"},
		Rows:    make([][]string, 0, len(schedule.Slots)),
	}
	if len(schedule.Slots) > 0 {
		table.Subtitle = fmt.Sprintf("%s to %s, version %d", schedule.Start, schedule.End, schedule.Version)
	}
	for i, slot := range schedule.Slots {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", i+1),
			slot.DayCardID,
			slot.Date.String(),
			slot.Date.Weekday().String(),
		})
	}
	return table
}
