package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/promanagex/promanagex-api/internal/models"
	"github.com/promanagex/promanagex-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNotCommentAuthor    = errors.New("not the comment author")
	ErrEmptyCommentContent = errors.New("comment content cannot be empty")
)

// CommentService provides business logic for issue comments.
type CommentService struct {
	commentRepo  repository.CommentRepository
	issueRepo    repository.IssueRepository
	projectRepo  repository.ProjectRepository
	activityRepo repository.ActivityRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, issueRepo repository.IssueRepository, projectRepo repository.ProjectRepository, activityRepo repository.ActivityRepository) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		issueRepo:    issueRepo,
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
	}
}

// CreateComment adds a comment to an issue the user can see and records a
// "commented" activity.
func (s *CommentService) CreateComment(issueID, userID uint64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyCommentContent
	}

	issue, err := s.findIssue(issueID)
	if err != nil {
		return nil, err
	}

	if err := s.checkProjectAccess(issue.ProjectID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		IssueID: issueID,
		UserID:  userID,
		Content: content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	activity := &models.Activity{
		IssueID:     issueID,
		UserID:      userID,
		Action:      models.ActionCommented,
		Description: "Added a comment",
	}
	// The activity log is best-effort; the comment itself is already saved.
	if err := s.activityRepo.Create(activity); err != nil {
		log.Printf("failed to record activity for issue %d: %v", issueID, err)
	}

	return s.findComment(comment.ID, "User")
}

// ListComments returns an issue's comments oldest first. Requires access to
// the issue's project.
func (s *CommentService) ListComments(issueID, userID uint64) ([]models.Comment, error) {
	issue, err := s.findIssue(issueID)
	if err != nil {
		return nil, err
	}

	if err := s.checkProjectAccess(issue.ProjectID, userID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment edits a comment. Only the author may update it; project
// membership alone is insufficient.
func (s *CommentService) UpdateComment(id, userID uint64, content string) (*models.Comment, error) {
	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}

	if comment.UserID != userID {
		return nil, ErrNotCommentAuthor
	}

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyCommentContent
	}

	comment.Content = content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return s.findComment(id, "User")
}

// DeleteComment removes a comment. Author only.
func (s *CommentService) DeleteComment(id, userID uint64) error {
	comment, err := s.findComment(id)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) findComment(id uint64, preload ...string) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) findIssue(id uint64) (*models.Issue, error) {
	issue, err := s.issueRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}
	return issue, nil
}

func (s *CommentService) checkProjectAccess(projectID, userID uint64) error {
	project, err := s.projectRepo.FindByID(projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	if !project.HasAccess(userID) {
		return ErrProjectAccessDenied
	}
	return nil
}
