package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycard-scheduler/internal/middleware"
	"github.com/noah-isme/daycard-scheduler/internal/models"
	appErrors "github.com/noah-isme/daycard-scheduler/pkg/errors"
	"github.com/noah-isme/daycard-scheduler/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// requireParam writes a validation error and returns "" when the path parameter is blank.
func requireParam(c *gin.Context, name string) string {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return ""
	}
	return value
}
