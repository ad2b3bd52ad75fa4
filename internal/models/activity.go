package models

import "time"

type ActivityAction string

const (
	ActionCreated         ActivityAction = "created"
	ActionStatusChanged   ActivityAction = "status_changed"
	ActionPriorityChanged ActivityAction = "priority_changed"
	ActionAssigneeChanged ActivityAction = "assignee_changed"
	ActionCommented       ActivityAction = "commented"
	ActionUpdated         ActivityAction = "updated"
	ActionDeleted         ActivityAction = "deleted"
)

// Activity is an append-only audit record of a field-level change to an
// issue. Rows are never updated or deleted.
type Activity struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	IssueID     uint64         `gorm:"not null;index:idx_activities_issue_created" json:"issue"`
	UserID      uint64         `gorm:"not null" json:"user"`
	Action      ActivityAction `gorm:"type:varchar(30);not null" json:"action"`
	Field       string         `gorm:"type:varchar(50)" json:"field"`
	OldValue    string         `gorm:"type:varchar(255)" json:"oldValue"`
	NewValue    string         `gorm:"type:varchar(255)" json:"newValue"`
	Description string         `gorm:"type:varchar(255);not null" json:"description"`
	CreatedAt   time.Time      `gorm:"index:idx_activities_issue_created" json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
