package repository

import (
	"github.com/promanagex/promanagex-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project along with its initial member rows
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser lists projects where the user is owner or member,
	// newest first
	ListForUser(userID uint64) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete removes a project, its issues and its membership rows.
	// The statements are independent; there is no surrounding transaction.
	Delete(id uint64) error

	// AddMember inserts a membership row
	AddMember(member *models.ProjectMember) error

	// RemoveMember deletes a membership row
	RemoveMember(projectID, userID uint64) error
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(issue *models.Issue) error

	// FindByID finds an issue by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Issue, error)

	// ListByProject lists a project's issues ordered by board position
	ListByProject(projectID uint64) ([]models.Issue, error)

	// ListByAssignee lists all issues assigned to a user across projects
	ListByAssignee(userID uint64) ([]models.Issue, error)

	// NextBoardPosition returns the position for a new To-Do issue:
	// one past the highest To-Do position in the project, or 0
	NextBoardPosition(projectID uint64) (int, error)

	// Update persists changes to an issue
	Update(issue *models.Issue) error

	// Delete hard-deletes an issue. Comments and activities are left behind.
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// ListByIssue lists an issue's comments oldest first
	ListByIssue(issueID uint64) ([]models.Comment, error)

	// Update persists changes to a comment
	Update(comment *models.Comment) error

	// Delete removes a comment
	Delete(id uint64) error
}

// ActivityRepository defines the interface for the append-only audit log
type ActivityRepository interface {
	// Create appends an activity row
	Create(activity *models.Activity) error

	// ListByIssue lists an issue's activities newest first
	ListByIssue(issueID uint64) ([]models.Activity, error)
}
