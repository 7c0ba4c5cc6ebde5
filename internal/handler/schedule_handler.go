package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/middleware"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
	"github.com/noah-isme/daycard-scheduler/pkg/response"
)

type scheduleService interface {
	Get(ctx context.Context, taskID string) (*models.TaskSchedule, error)
	Move(ctx context.Context, taskID string, req dto.MoveDayCardRequest, actorID string) (*dto.MoveDayCardResponse, error)
	Preview(ctx context.Context, taskID string, req dto.MoveDayCardRequest) (*dto.MoveDayCardResponse, error)
}

type scheduleExporter interface {
	ExportSchedule(ctx context.Context, taskID string, format dto.ScheduleExportFormat) (*dto.ScheduleExport, error)
}

type shiftHistoryService interface {
	History(ctx context.Context, taskID string, query dto.ShiftHistoryQuery) ([]models.ShiftLog, *models.Pagination, error)
}

// ScheduleHandler exposes /tasks/:taskId/schedule endpoints.
type ScheduleHandler struct {
	schedules scheduleService
	exports   scheduleExporter
	history   shiftHistoryService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedules scheduleService, exports scheduleExporter, history shiftHistoryService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exports: exports, history: history}
}

// Get godoc
// @Summary Get a task schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tasks/{taskId}/schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	taskID := requireParam(c, "taskId")
	if taskID == "" {
		return
	}
	schedule, err := h.schedules.Get(c.Request.Context(), taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil, middleware.Meta(c))
}

// Move godoc
// @Summary Move a day card and cascade the following slots
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param payload body dto.MoveDayCardRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /tasks/{taskId}/schedule/move [post]
func (h *ScheduleHandler) Move(c *gin.Context) {
	h.shift(c, true)
}

// Preview godoc
// @Summary Preview the outcome of a day-card move without saving it
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param payload body dto.MoveDayCardRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Router /tasks/{taskId}/schedule/preview [post]
func (h *ScheduleHandler) Preview(c *gin.Context) {
	h.shift(c, false)
}

func (h *ScheduleHandler) shift(c *gin.Context, apply bool) {
	taskID := requireParam(c, "taskId")
	if taskID == "" {
		return
	}
	var req dto.MoveDayCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}

	var (
		res *dto.MoveDayCardResponse
		err error
	)
	if apply {
		res, err = h.schedules.Move(c.Request.Context(), taskID, req, actorID(c))
	} else {
		res, err = h.schedules.Preview(c.Request.Context(), taskID, req)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "changed_slots", len(res.Changes))
	response.JSON(c, http.StatusOK, res, nil, middleware.Meta(c))
}

// Export godoc
// @Summary Download a task schedule
// @Tags Schedules
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /tasks/{taskId}/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	taskID := requireParam(c, "taskId")
	if taskID == "" {
		return
	}
	file, err := h.exports.ExportSchedule(c.Request.Context(), taskID, dto.ScheduleExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// History godoc
// @Summary List day-card moves applied to a task schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} response.Envelope
// @Router /tasks/{taskId}/schedule/history [get]
func (h *ScheduleHandler) History(c *gin.Context) {
	taskID := requireParam(c, "taskId")
	if taskID == "" {
		return
	}
	var query dto.ShiftHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pagination"))
		return
	}
	logs, page, err := h.history.History(c.Request.Context(), taskID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, page)
}
