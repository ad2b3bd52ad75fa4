package models

import "time"

type IssueStatus string

const (
	IssueStatusTodo       IssueStatus = "To-Do"
	IssueStatusInProgress IssueStatus = "In-Progress"
	IssueStatusReview     IssueStatus = "Review"
	IssueStatusDone       IssueStatus = "Done"
)

// ValidIssueStatus reports whether s is one of the four board columns.
func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusTodo, IssueStatusInProgress, IssueStatusReview, IssueStatusDone:
		return true
	}
	return false
}

type IssuePriority string

const (
	PriorityLow      IssuePriority = "Low"
	PriorityMedium   IssuePriority = "Medium"
	PriorityHigh     IssuePriority = "High"
	PriorityCritical IssuePriority = "Critical"
)

// ValidIssuePriority reports whether p is a known priority.
func ValidIssuePriority(p IssuePriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Issue struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	ProjectID   uint64        `gorm:"not null;index:idx_issues_project_status" json:"project"`
	Status      IssueStatus   `gorm:"type:varchar(20);not null;default:'To-Do';index:idx_issues_project_status" json:"status"`
	Priority    IssuePriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	AssigneeID  *uint64       `gorm:"index" json:"assignee"`
	ReporterID  uint64        `gorm:"not null" json:"reporter"`
	Tags        []string      `gorm:"serializer:json" json:"tags"`
	// Position orders the issue within its (project, status) board column.
	// Not globally unique; last writer wins on concurrent reorders.
	Position       int        `gorm:"not null;default:0" json:"position"`
	EstimatedHours *float64   `json:"estimatedHours"`
	LoggedHours    float64    `gorm:"not null;default:0" json:"loggedHours"`
	StartDate      *time.Time `json:"startDate"`
	DueDate        *time.Time `json:"dueDate"`
	FinishDate     *time.Time `json:"finishDate"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID" json:"-"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"-"`
	Reporter User    `gorm:"foreignKey:ReporterID" json:"-"`
}
