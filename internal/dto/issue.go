package dto

import (
	"time"

	"github.com/promanagex/promanagex-api/internal/models"
)

// IssueDTO represents an issue in API responses
type IssueDTO struct {
	ID             uint64               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Project        ProjectRefDTO        `json:"project"`
	Status         models.IssueStatus   `json:"status"`
	Priority       models.IssuePriority `json:"priority"`
	Assignee       *UserDTO             `json:"assignee"`
	Reporter       *UserDTO             `json:"reporter,omitempty"`
	Tags           []string             `json:"tags"`
	Position       int                  `json:"position"`
	EstimatedHours *float64             `json:"estimatedHours"`
	LoggedHours    float64              `json:"loggedHours"`
	StartDate      *time.Time           `json:"startDate"`
	DueDate        *time.Time           `json:"dueDate"`
	FinishDate     *time.Time           `json:"finishDate"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// ToIssueDTO converts an Issue to IssueDTO. Assignee, Reporter and Project
// are included when preloaded.
func ToIssueDTO(issue models.Issue) IssueDTO {
	dto := IssueDTO{
		ID:             issue.ID,
		Title:          issue.Title,
		Description:    issue.Description,
		Status:         issue.Status,
		Priority:       issue.Priority,
		Tags:           issue.Tags,
		Position:       issue.Position,
		EstimatedHours: issue.EstimatedHours,
		LoggedHours:    issue.LoggedHours,
		StartDate:      issue.StartDate,
		DueDate:        issue.DueDate,
		FinishDate:     issue.FinishDate,
		CreatedAt:      issue.CreatedAt,
		UpdatedAt:      issue.UpdatedAt,
	}

	if issue.Tags == nil {
		dto.Tags = []string{}
	}

	dto.Project = ProjectRefDTO{ID: issue.ProjectID, Name: issue.Project.Name}

	if issue.Assignee != nil && issue.Assignee.ID != 0 {
		assignee := ToUserDTO(*issue.Assignee)
		dto.Assignee = &assignee
	}

	if issue.Reporter.ID != 0 {
		reporter := ToUserDTO(issue.Reporter)
		dto.Reporter = &reporter
	}

	return dto
}

// ToIssueDTOs converts a slice of issues
func ToIssueDTOs(issues []models.Issue) []IssueDTO {
	dtos := make([]IssueDTO, len(issues))
	for i, issue := range issues {
		dtos[i] = ToIssueDTO(issue)
	}
	return dtos
}
