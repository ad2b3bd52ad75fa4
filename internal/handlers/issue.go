package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/promanagex/promanagex-api/internal/dto"
	apierrors "github.com/promanagex/promanagex-api/internal/errors"
	"github.com/promanagex/promanagex-api/internal/middleware"
	"github.com/promanagex/promanagex-api/internal/models"
	"github.com/promanagex/promanagex-api/internal/services"
)

// IssueHandler coordinates issue and board HTTP handlers.
type IssueHandler struct {
	issueService *services.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issueService *services.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// CreateIssue creates an issue in the To-Do column of a project the caller
// belongs to.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateIssueRequest struct {
		Title          string               `json:"title" binding:"required"`
		Description    string               `json:"description"`
		Project        uint64               `json:"project" binding:"required"`
		Priority       models.IssuePriority `json:"priority" binding:"omitempty,oneof=Low Medium High Critical"`
		Assignee       *uint64              `json:"assignee"`
		Tags           []string             `json:"tags"`
		EstimatedHours *float64             `json:"estimatedHours"`
		StartDate      *time.Time           `json:"startDate"`
		DueDate        *time.Time           `json:"dueDate"`
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.CreateIssue(services.CreateIssueInput{
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.Project,
		Priority:       req.Priority,
		AssigneeID:     req.Assignee,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
	}, userID)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"issue":   dto.ToIssueDTO(*issue),
	})
}

// ListIssuesByProject returns a project's issues ordered by board position.
func (h *IssueHandler) ListIssuesByProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	issues, err := h.issueService.ListIssues(projectID, userID)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(issues),
		"issues":  dto.ToIssueDTOs(issues),
	})
}

// GetIssue returns a single issue.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	issue, err := h.issueService.GetIssue(issueID, userID)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issue":   dto.ToIssueDTO(*issue),
	})
}

// UpdateIssue applies a full update. The raw body is parsed into a map so
// omitted fields can be told apart from explicit nulls.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildIssueUpdateInput(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.UpdateIssue(issueID, userID, input)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issue":   dto.ToIssueDTO(*issue),
	})
}

// UpdateIssueStatus moves an issue between board columns (drag-and-drop).
func (h *IssueHandler) UpdateIssueStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status   models.IssueStatus `json:"status" binding:"required,oneof=To-Do In-Progress Review Done"`
		Position *int               `json:"position"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.UpdateIssueStatus(issueID, userID, req.Status, req.Position)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issue":   dto.ToIssueDTO(*issue),
	})
}

// DeleteIssue hard-deletes an issue.
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.issueService.DeleteIssue(issueID, userID); err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Issue deleted successfully",
	})
}

// ListIssueActivities returns an issue's audit trail newest first.
func (h *IssueHandler) ListIssueActivities(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	activities, err := h.issueService.ListIssueActivities(issueID)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(activities),
		"activities": dto.ToActivityDTOs(activities),
	})
}

// buildIssueUpdateInput translates the raw JSON body into the service
// input, preserving the absent / null / value distinction for the fields
// where an explicit null clears the stored value.
func buildIssueUpdateInput(raw map[string]any) (services.UpdateIssueInput, error) {
	var input services.UpdateIssueInput

	if s, present, err := stringField(raw, "title"); err != nil {
		return input, err
	} else if present {
		input.Title = &s
	}
	if s, present, err := stringField(raw, "description"); err != nil {
		return input, err
	} else if present {
		input.Description = &s
	}
	if s, present, err := stringField(raw, "status"); err != nil {
		return input, err
	} else if present {
		status := models.IssueStatus(s)
		input.Status = &status
	}
	if s, present, err := stringField(raw, "priority"); err != nil {
		return input, err
	} else if present {
		priority := models.IssuePriority(s)
		input.Priority = &priority
	}

	if v, present := raw["assignee"]; present {
		input.Assignee.Set = true
		if v != nil {
			num, ok := v.(float64)
			if !ok {
				return input, errors.New("assignee must be a user ID")
			}
			id := uint64(num)
			input.Assignee.Value = &id
		}
	}

	if v, present := raw["tags"]; present && v != nil {
		items, ok := v.([]any)
		if !ok {
			return input, errors.New("tags must be an array of strings")
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return input, errors.New("tags must be an array of strings")
			}
			tags = append(tags, s)
		}
		input.Tags = &tags
	}

	var err error
	if input.EstimatedHours, err = floatField(raw, "estimatedHours"); err != nil {
		return input, err
	}
	if input.LoggedHours, err = floatField(raw, "loggedHours"); err != nil {
		return input, err
	}
	if input.StartDate, err = timeField(raw, "startDate"); err != nil {
		return input, err
	}
	if input.DueDate, err = timeField(raw, "dueDate"); err != nil {
		return input, err
	}
	if input.FinishDate, err = timeField(raw, "finishDate"); err != nil {
		return input, err
	}

	return input, nil
}

func stringField(raw map[string]any, key string) (string, bool, error) {
	v, present := raw[key]
	if !present || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, errors.New(key + " must be a string")
	}
	return s, true, nil
}

func floatField(raw map[string]any, key string) (services.OptionalFloat, error) {
	v, present := raw[key]
	if !present {
		return services.OptionalFloat{}, nil
	}
	if v == nil {
		return services.OptionalFloat{Set: true}, nil
	}
	num, ok := v.(float64)
	if !ok {
		return services.OptionalFloat{}, errors.New(key + " must be a number")
	}
	return services.OptionalFloat{Set: true, Value: &num}, nil
}

func timeField(raw map[string]any, key string) (services.OptionalTime, error) {
	v, present := raw[key]
	if !present {
		return services.OptionalTime{}, nil
	}
	if v == nil {
		return services.OptionalTime{Set: true}, nil
	}
	s, ok := v.(string)
	if !ok {
		return services.OptionalTime{}, errors.New(key + " must be an RFC 3339 date")
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return services.OptionalTime{}, errors.New(key + " must be an RFC 3339 date")
	}
	return services.OptionalTime{Set: true, Value: &parsed}, nil
}

func respondIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		apierrors.NotFound(c, "Issue not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectAccessDenied):
		apierrors.Forbidden(c, "Access denied")
	case errors.Is(err, services.ErrInvalidIssueStatus),
		errors.Is(err, services.ErrInvalidIssuePriority):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, err)
	}
}
