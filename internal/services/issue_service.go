package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/promanagex/promanagex-api/internal/models"
	"github.com/promanagex/promanagex-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrIssueNotFound        = errors.New("issue not found")
	ErrInvalidIssueStatus   = errors.New("invalid issue status")
	ErrInvalidIssuePriority = errors.New("invalid issue priority")
)

var issuePreloads = []string{"Assignee", "Reporter", "Project"}

// OptionalID distinguishes an absent assignee field from an explicit null.
type OptionalID struct {
	Set   bool
	Value *uint64
}

// OptionalFloat distinguishes an absent numeric field from an explicit null.
type OptionalFloat struct {
	Set   bool
	Value *float64
}

// OptionalTime distinguishes an absent date field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// IssueService provides business logic for issue and board operations.
type IssueService struct {
	issueRepo    repository.IssueRepository
	projectRepo  repository.ProjectRepository
	activityRepo repository.ActivityRepository
}

// NewIssueService creates a new IssueService.
func NewIssueService(issueRepo repository.IssueRepository, projectRepo repository.ProjectRepository, activityRepo repository.ActivityRepository) *IssueService {
	return &IssueService{
		issueRepo:    issueRepo,
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
	}
}

// CreateIssueInput represents parameters to create a new issue. New issues
// always land in the To-Do column.
type CreateIssueInput struct {
	Title          string
	Description    string
	ProjectID      uint64
	Priority       models.IssuePriority
	AssigneeID     *uint64
	Tags           []string
	EstimatedHours *float64
	StartDate      *time.Time
	DueDate        *time.Time
}

// CreateIssue creates an issue at the bottom of the project's To-Do column
// and records a "created" activity. The reporter is always the caller.
func (s *IssueService) CreateIssue(input CreateIssueInput, reporterID uint64) (*models.Issue, error) {
	project, err := s.findProjectWithMembers(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.HasAccess(reporterID) {
		return nil, ErrProjectAccessDenied
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidIssuePriority(priority) {
		return nil, ErrInvalidIssuePriority
	}

	position, err := s.issueRepo.NextBoardPosition(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute board position: %w", err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	issue := &models.Issue{
		Title:          input.Title,
		Description:    input.Description,
		ProjectID:      input.ProjectID,
		Status:         models.IssueStatusTodo,
		Priority:       priority,
		AssigneeID:     input.AssigneeID,
		ReporterID:     reporterID,
		Tags:           tags,
		Position:       position,
		EstimatedHours: input.EstimatedHours,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
	}

	if err := s.issueRepo.Create(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.logActivity(issue.ID, reporterID, models.ActionCreated, "Issue created", "", "", "")

	return s.findIssue(issue.ID, issuePreloads...)
}

// ListIssues returns a project's issues ordered by board position.
func (s *IssueService) ListIssues(projectID, userID uint64) ([]models.Issue, error) {
	project, err := s.findProjectWithMembers(projectID)
	if err != nil {
		return nil, err
	}
	if !project.HasAccess(userID) {
		return nil, ErrProjectAccessDenied
	}

	issues, err := s.issueRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// GetIssue returns an issue the user has access to via project membership.
func (s *IssueService) GetIssue(id, userID uint64) (*models.Issue, error) {
	issue, err := s.findIssue(id, issuePreloads...)
	if err != nil {
		return nil, err
	}

	if err := s.checkProjectAccess(issue.ProjectID, userID); err != nil {
		return nil, err
	}

	return issue, nil
}

// UpdateIssueInput carries the updatable issue fields. Nil pointer fields
// and unset optionals are left unchanged; a set optional with a nil value
// clears the field.
type UpdateIssueInput struct {
	Title          *string
	Description    *string
	Status         *models.IssueStatus
	Priority       *models.IssuePriority
	Assignee       OptionalID
	Tags           *[]string
	EstimatedHours OptionalFloat
	LoggedHours    OptionalFloat
	StartDate      OptionalTime
	DueDate        OptionalTime
	FinishDate     OptionalTime
}

// UpdateIssue applies a full update. Any project member may update any
// issue. Status, priority and assignee changes each append a distinct
// activity row. finishDate is set the first time the issue moves into Done
// and cleared whenever the effective status is anything else.
func (s *IssueService) UpdateIssue(id, userID uint64, input UpdateIssueInput) (*models.Issue, error) {
	issue, err := s.findIssue(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkProjectAccess(issue.ProjectID, userID); err != nil {
		return nil, err
	}

	if input.Status != nil && !models.ValidIssueStatus(*input.Status) {
		return nil, ErrInvalidIssueStatus
	}
	if input.Priority != nil && !models.ValidIssuePriority(*input.Priority) {
		return nil, ErrInvalidIssuePriority
	}

	if input.Status != nil && *input.Status != issue.Status {
		s.logActivity(issue.ID, userID, models.ActionStatusChanged,
			fmt.Sprintf("Status changed from %s to %s", issue.Status, *input.Status),
			"status", string(issue.Status), string(*input.Status))
	}

	if input.Priority != nil && *input.Priority != issue.Priority {
		s.logActivity(issue.ID, userID, models.ActionPriorityChanged,
			fmt.Sprintf("Priority changed from %s to %s", issue.Priority, *input.Priority),
			"priority", string(issue.Priority), string(*input.Priority))
	}

	if input.Assignee.Set && !sameID(input.Assignee.Value, issue.AssigneeID) {
		s.logActivity(issue.ID, userID, models.ActionAssigneeChanged,
			"Assignee changed",
			"assignee", assigneeLabel(issue.AssigneeID), assigneeLabel(input.Assignee.Value))
	}

	// finishDate follows the status the issue will have after this update.
	effectiveStatus := issue.Status
	if input.Status != nil {
		effectiveStatus = *input.Status
	}
	switch {
	case effectiveStatus == models.IssueStatusDone && issue.Status != models.IssueStatusDone:
		if input.FinishDate.Set && input.FinishDate.Value != nil {
			issue.FinishDate = input.FinishDate.Value
		} else {
			now := time.Now()
			issue.FinishDate = &now
		}
	case effectiveStatus != models.IssueStatusDone:
		issue.FinishDate = nil
	default:
		if input.FinishDate.Set {
			issue.FinishDate = input.FinishDate.Value
		}
	}

	if input.Title != nil {
		issue.Title = *input.Title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Status != nil {
		issue.Status = *input.Status
	}
	if input.Priority != nil {
		issue.Priority = *input.Priority
	}
	if input.Assignee.Set {
		issue.AssigneeID = input.Assignee.Value
	}
	if input.Tags != nil {
		issue.Tags = *input.Tags
	}
	if input.EstimatedHours.Set {
		issue.EstimatedHours = input.EstimatedHours.Value
	}
	if input.LoggedHours.Set {
		if input.LoggedHours.Value != nil {
			issue.LoggedHours = *input.LoggedHours.Value
		} else {
			issue.LoggedHours = 0
		}
	}
	if input.StartDate.Set {
		issue.StartDate = input.StartDate.Value
	}
	if input.DueDate.Set {
		issue.DueDate = input.DueDate.Value
	}

	if err := s.issueRepo.Update(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	return s.findIssue(id, issuePreloads...)
}

// UpdateIssueStatus moves an issue to another board column, used by
// drag-and-drop. Position values are client-supplied and last-writer-wins.
// A status_changed activity is recorded only when the status differs.
func (s *IssueService) UpdateIssueStatus(id, userID uint64, status models.IssueStatus, position *int) (*models.Issue, error) {
	if !models.ValidIssueStatus(status) {
		return nil, ErrInvalidIssueStatus
	}

	issue, err := s.findIssue(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkProjectAccess(issue.ProjectID, userID); err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	issue.Status = status
	if position != nil {
		issue.Position = *position
	}

	switch {
	case status == models.IssueStatusDone && oldStatus != models.IssueStatusDone:
		now := time.Now()
		issue.FinishDate = &now
	case status != models.IssueStatusDone:
		issue.FinishDate = nil
	}

	if err := s.issueRepo.Update(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue status: %w", err)
	}

	if oldStatus != status {
		s.logActivity(issue.ID, userID, models.ActionStatusChanged,
			fmt.Sprintf("Status changed from %s to %s", oldStatus, status),
			"status", string(oldStatus), string(status))
	}

	return s.findIssue(id, issuePreloads...)
}

// DeleteIssue hard-deletes an issue. Its comments and activities are left
// behind; only project deletion cascades.
func (s *IssueService) DeleteIssue(id, userID uint64) error {
	issue, err := s.findIssue(id)
	if err != nil {
		return err
	}

	if err := s.checkProjectAccess(issue.ProjectID, userID); err != nil {
		return err
	}

	if err := s.issueRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	return nil
}

// ListIssueActivities returns an issue's audit trail newest first. Any
// authenticated caller may read it; there is no membership check.
func (s *IssueService) ListIssueActivities(issueID uint64) ([]models.Activity, error) {
	if _, err := s.findIssue(issueID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *IssueService) findIssue(id uint64, preload ...string) (*models.Issue, error) {
	issue, err := s.issueRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}
	return issue, nil
}

func (s *IssueService) findProjectWithMembers(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *IssueService) checkProjectAccess(projectID, userID uint64) error {
	project, err := s.findProjectWithMembers(projectID)
	if err != nil {
		return err
	}
	if !project.HasAccess(userID) {
		return ErrProjectAccessDenied
	}
	return nil
}

// logActivity appends an audit row. Failures are logged with the write
// downgraded to best effort; the mutation itself has already succeeded.
func (s *IssueService) logActivity(issueID, userID uint64, action models.ActivityAction, description, field, oldValue, newValue string) {
	activity := &models.Activity{
		IssueID:     issueID,
		UserID:      userID,
		Action:      action,
		Field:       field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		log.Printf("failed to record activity for issue %d: %v", issueID, err)
	}
}

func sameID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func assigneeLabel(id *uint64) string {
	if id == nil {
		return "Unassigned"
	}
	return strconv.FormatUint(*id, 10)
}
