package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycard-scheduler/internal/dto"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
	"github.com/noah-isme/daycard-scheduler/pkg/response"
)

type workDaysService interface {
	Get(ctx context.Context, projectID string) (*models.WorkDays, error)
	Update(ctx context.Context, projectID string, req dto.UpdateWorkDaysRequest, actorID string) (*models.WorkDays, error)
	CheckDate(ctx context.Context, projectID string, d date.Date) (*dto.DateCheckResponse, error)
}

// WorkDaysHandler exposes /projects/:projectId/workdays endpoints.
type WorkDaysHandler struct {
	service workDaysService
}

// NewWorkDaysHandler constructs the handler.
func NewWorkDaysHandler(service workDaysService) *WorkDaysHandler {
	return &WorkDaysHandler{service: service}
}

// Get godoc
// @Summary Get a project's work-days policy
// @Tags WorkDays
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/workdays [get]
func (h *WorkDaysHandler) Get(c *gin.Context) {
	projectID := requireParam(c, "projectId")
	if projectID == "" {
		return
	}
	wd, err := h.service.Get(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wd, nil)
}

// Update godoc
// @Summary Replace a project's work-days policy
// @Tags WorkDays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param payload body dto.UpdateWorkDaysRequest true "Policy"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /projects/{projectId}/workdays [put]
func (h *WorkDaysHandler) Update(c *gin.Context) {
	projectID := requireParam(c, "projectId")
	if projectID == "" {
		return
	}
	var req dto.UpdateWorkDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid work days payload"))
		return
	}
	wd, err := h.service.Update(c.Request.Context(), projectID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wd, nil)
}

// Check godoc
// @Summary Check whether a date is a working day for the project
// @Tags WorkDays
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/workdays/check [get]
func (h *WorkDaysHandler) Check(c *gin.Context) {
	projectID := requireParam(c, "projectId")
	if projectID == "" {
		return
	}
	d, err := date.Parse(c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD"))
		return
	}
	res, err := h.service.CheckDate(c.Request.Context(), projectID, d)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
