package dto

import (
	"time"

	"github.com/promanagex/promanagex-api/internal/models"
)

// ProjectMemberDTO represents a membership entry in API responses
type ProjectMemberDTO struct {
	User UserDTO            `json:"user"`
	Role models.ProjectRole `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Owner       UserDTO              `json:"owner"`
	Members     []ProjectMemberDTO   `json:"members"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ProjectRefDTO is the minimal project reference embedded in issues
type ProjectRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToProjectDTO converts a Project to ProjectDTO. Owner and Members.User
// must be preloaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	members := make([]ProjectMemberDTO, len(project.Members))
	for i, m := range project.Members {
		members[i] = ProjectMemberDTO{
			User: ToUserDTO(m.User),
			Role: m.Role,
		}
	}

	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Owner:       ToUserDTO(project.Owner),
		Members:     members,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

// ToProjectRefDTO converts a Project to its minimal reference form
func ToProjectRefDTO(project models.Project) ProjectRefDTO {
	return ProjectRefDTO{
		ID:   project.ID,
		Name: project.Name,
	}
}
