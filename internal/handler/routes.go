package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycard-scheduler/internal/middleware"
	"github.com/noah-isme/daycard-scheduler/internal/models"
)

// RegisterRoutes mounts the authenticated API on api. The caller installs authentication on the group.
func RegisterRoutes(api *gin.RouterGroup, schedules *ScheduleHandler, workDays *WorkDaysHandler, metrics *MetricsHandler) {
	readers := middleware.RequireRoles(models.ReadRoles...)

	tasks := api.Group("/tasks/:taskId/schedule")
	tasks.GET("", readers, schedules.Get)
	tasks.GET("/history", readers, schedules.History)
	tasks.GET("/export", readers, schedules.Export)
	tasks.POST("/preview", readers, schedules.Preview)
	tasks.POST("/move", middleware.RequireRoles(models.MoveRoles...), schedules.Move)

	projects := api.Group("/projects/:projectId/workdays")
	projects.GET("", readers, workDays.Get)
	projects.GET("/check", readers, workDays.Check)
	projects.PUT("", middleware.RequireRoles(models.PolicyRoles...), workDays.Update)

	api.GET("/metrics/summary", middleware.RequireRoles(models.OperatorRoles...), metrics.Summary)
}
