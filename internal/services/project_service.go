package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promanagex/promanagex-api/internal/models"
	"github.com/promanagex/promanagex-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectAccessDenied  = errors.New("access denied")
	ErrNotProjectAdmin      = errors.New("not a project admin")
	ErrNotProjectOwner      = errors.New("only owner can delete project")
	ErrInvalidProjectName   = errors.New("project name cannot be empty")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidMemberRole    = errors.New("invalid member role")
	ErrAlreadyProjectMember = errors.New("user is already a member")
	ErrCannotRemoveOwner    = errors.New("cannot remove project owner")
)

// projectPreloads loads everything needed by the access predicates and the
// response DTO in one fetch.
var projectPreloads = []string{"Owner", "Members.User"}

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	MemberIDs   []uint64
	OwnerID     uint64
}

// CreateProject creates a project. The creator becomes owner and an
// admin-role member; supplied member IDs become member-role entries and are
// not validated against existing users.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	now := time.Now()
	members := []models.ProjectMember{
		{UserID: input.OwnerID, Role: models.RoleAdmin, JoinedAt: now},
	}
	for _, id := range input.MemberIDs {
		if id == input.OwnerID {
			continue
		}
		members = append(members, models.ProjectMember{
			UserID:   id,
			Role:     models.RoleMember,
			JoinedAt: now,
		})
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		Status:      models.ProjectStatusActive,
		Members:     members,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.findProject(project.ID)
}

// ListProjects returns projects where the user is owner or member, newest first.
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project the user has access to.
func (s *ProjectService) GetProject(id, userID uint64) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if !project.HasAccess(userID) {
		return nil, ErrProjectAccessDenied
	}

	return project, nil
}

// UpdateProjectInput carries the updatable project fields. Nil fields are
// left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject updates a project. Requires owner or admin-role membership.
func (s *ProjectService) UpdateProject(id, userID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if !project.IsAdmin(userID) {
		return nil, ErrNotProjectAdmin
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.findProject(id)
}

// DeleteProject deletes a project and all of its issues. Owner only.
// Comments and activities of the deleted issues are not cascaded.
func (s *ProjectService) DeleteProject(id, userID uint64) error {
	project, err := s.findProject(id)
	if err != nil {
		return err
	}

	if project.OwnerID != userID {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddMember adds a user to the project. Requires owner or admin. The user ID
// is not validated against existing users; role defaults to member.
func (s *ProjectService) AddMember(projectID, actorID, userID uint64, role models.ProjectRole) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsAdmin(actorID) {
		return nil, ErrNotProjectAdmin
	}

	for _, m := range project.Members {
		if m.UserID == userID {
			return nil, ErrAlreadyProjectMember
		}
	}

	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidProjectRole(role) {
		return nil, ErrInvalidMemberRole
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.findProject(projectID)
}

// RemoveMember removes a member from the project. Requires owner or admin.
// The owner can never be removed.
func (s *ProjectService) RemoveMember(projectID, actorID, targetID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsAdmin(actorID) {
		return nil, ErrNotProjectAdmin
	}

	if project.OwnerID == targetID {
		return nil, ErrCannotRemoveOwner
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return s.findProject(projectID)
}

func (s *ProjectService) findProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id, projectPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
