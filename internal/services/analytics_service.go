package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/promanagex/promanagex-api/internal/dto"
	"github.com/promanagex/promanagex-api/internal/models"
	"github.com/promanagex/promanagex-api/internal/repository"
	"gorm.io/gorm"
)

// AnalyticsService computes read-only rollups over the issue store.
type AnalyticsService struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(issueRepo repository.IssueRepository, projectRepo repository.ProjectRepository) *AnalyticsService {
	return &AnalyticsService{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
	}
}

// ProjectAnalytics aggregates a project's issues. Requires project access,
// checked with the same predicate as every other project read.
func (s *AnalyticsService) ProjectAnalytics(projectID, userID uint64) (*dto.ProjectAnalytics, error) {
	project, err := s.projectRepo.FindByID(projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !project.HasAccess(userID) {
		return nil, ErrProjectAccessDenied
	}

	issues, err := s.issueRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	analytics := &dto.ProjectAnalytics{
		TotalIssues:            len(issues),
		MemberWiseDistribution: []dto.AssigneeDistribution{},
	}

	// Per-assignee buckets keyed by user ID, emitted in first-seen order.
	assigneeIndex := make(map[uint64]int)

	for _, issue := range issues {
		countStatus(&analytics.IssuesByStatus, issue.Status)
		countPriority(&analytics.IssuesByPriority, issue.Priority)

		if issue.AssigneeID == nil {
			analytics.UnassignedCount++
			continue
		}

		idx, ok := assigneeIndex[*issue.AssigneeID]
		if !ok {
			idx = len(analytics.MemberWiseDistribution)
			assigneeIndex[*issue.AssigneeID] = idx
			entry := dto.AssigneeDistribution{}
			if issue.Assignee != nil {
				entry.User = dto.ToUserDTO(*issue.Assignee)
			} else {
				entry.User = dto.UserDTO{ID: *issue.AssigneeID}
			}
			analytics.MemberWiseDistribution = append(analytics.MemberWiseDistribution, entry)
		}
		analytics.MemberWiseDistribution[idx].Count++
		countStatus(&analytics.MemberWiseDistribution[idx].ByStatus, issue.Status)
	}

	if analytics.TotalIssues > 0 {
		rate := float64(analytics.IssuesByStatus.Done) / float64(analytics.TotalIssues) * 100
		analytics.CompletionRate = math.Round(rate*100) / 100
	}

	return analytics, nil
}

// UserAnalytics aggregates the issues assigned to the caller across all
// projects.
func (s *AnalyticsService) UserAnalytics(userID uint64) (*dto.UserAnalytics, error) {
	issues, err := s.issueRepo.ListByAssignee(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned issues: %w", err)
	}

	analytics := &dto.UserAnalytics{
		TotalAssigned:       len(issues),
		ProjectDistribution: []dto.ProjectDistribution{},
	}

	projectIndex := make(map[uint64]int)

	for _, issue := range issues {
		countStatus(&analytics.IssuesByStatus, issue.Status)
		countPriority(&analytics.IssuesByPriority, issue.Priority)

		idx, ok := projectIndex[issue.ProjectID]
		if !ok {
			idx = len(analytics.ProjectDistribution)
			projectIndex[issue.ProjectID] = idx
			analytics.ProjectDistribution = append(analytics.ProjectDistribution, dto.ProjectDistribution{
				Project: dto.ProjectRefDTO{ID: issue.ProjectID, Name: issue.Project.Name},
			})
		}
		analytics.ProjectDistribution[idx].Count++
	}

	return analytics, nil
}

func countStatus(b *dto.StatusBreakdown, status models.IssueStatus) {
	switch status {
	case models.IssueStatusTodo:
		b.ToDo++
	case models.IssueStatusInProgress:
		b.InProgress++
	case models.IssueStatusReview:
		b.Review++
	case models.IssueStatusDone:
		b.Done++
	}
}

func countPriority(b *dto.PriorityBreakdown, priority models.IssuePriority) {
	switch priority {
	case models.PriorityLow:
		b.Low++
	case models.PriorityMedium:
		b.Medium++
	case models.PriorityHigh:
		b.High++
	case models.PriorityCritical:
		b.Critical++
	}
}
