package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	IssueID   uint64    `gorm:"not null;index" json:"issue"`
	UserID    uint64    `gorm:"not null" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
