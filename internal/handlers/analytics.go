package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/promanagex/promanagex-api/internal/errors"
	"github.com/promanagex/promanagex-api/internal/middleware"
	"github.com/promanagex/promanagex-api/internal/services"
)

// AnalyticsHandler coordinates the read-only analytics endpoints.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetProjectAnalytics returns the rollup for one project.
func (h *AnalyticsHandler) GetProjectAnalytics(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	analytics, err := h.analyticsService.ProjectAnalytics(projectID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrProjectAccessDenied):
			apierrors.Forbidden(c, "Access denied")
		default:
			apierrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"analytics": analytics,
	})
}

// GetUserAnalytics returns the rollup of issues assigned to the caller.
func (h *AnalyticsHandler) GetUserAnalytics(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	analytics, err := h.analyticsService.UserAnalytics(userID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"analytics": analytics,
	})
}
