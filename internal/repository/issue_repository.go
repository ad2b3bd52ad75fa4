package repository

import (
	"errors"

	"github.com/promanagex/promanagex-api/internal/models"
	"gorm.io/gorm"
)

// GormIssueRepository is a GORM implementation of IssueRepository
type GormIssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &GormIssueRepository{db: db}
}

// Create creates a new issue
func (r *GormIssueRepository) Create(issue *models.Issue) error {
	return r.db.Create(issue).Error
}

// FindByID finds an issue by ID with optional preloading
func (r *GormIssueRepository) FindByID(id uint64, preload ...string) (*models.Issue, error) {
	var issue models.Issue
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListByProject lists a project's issues ordered by board position
func (r *GormIssueRepository) ListByProject(projectID uint64) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.
		Preload("Assignee").
		Preload("Reporter").
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// ListByAssignee lists all issues assigned to a user across projects
func (r *GormIssueRepository) ListByAssignee(userID uint64) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.
		Preload("Project").
		Where("assignee_id = ?", userID).
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// NextBoardPosition returns one past the highest To-Do position in the
// project, or 0 when the To-Do column is empty.
func (r *GormIssueRepository) NextBoardPosition(projectID uint64) (int, error) {
	var last models.Issue
	err := r.db.
		Where("project_id = ? AND status = ?", projectID, models.IssueStatusTodo).
		Order("position DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return last.Position + 1, nil
}

// Update persists changes to an issue
func (r *GormIssueRepository) Update(issue *models.Issue) error {
	return r.db.Save(issue).Error
}

// Delete hard-deletes an issue
func (r *GormIssueRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Issue{}, id).Error
}
