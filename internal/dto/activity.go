package dto

import (
	"time"

	"github.com/promanagex/promanagex-api/internal/models"
)

// ActivityDTO represents an audit log entry in API responses
type ActivityDTO struct {
	ID          uint64                `json:"id"`
	Issue       uint64                `json:"issue"`
	User        UserDTO               `json:"user"`
	Action      models.ActivityAction `json:"action"`
	Field       string                `json:"field"`
	OldValue    string                `json:"oldValue"`
	NewValue    string                `json:"newValue"`
	Description string                `json:"description"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ToActivityDTO converts an Activity to ActivityDTO. User must be preloaded.
func ToActivityDTO(activity models.Activity) ActivityDTO {
	return ActivityDTO{
		ID:          activity.ID,
		Issue:       activity.IssueID,
		User:        ToUserDTO(activity.User),
		Action:      activity.Action,
		Field:       activity.Field,
		OldValue:    activity.OldValue,
		NewValue:    activity.NewValue,
		Description: activity.Description,
		CreatedAt:   activity.CreatedAt,
	}
}

// ToActivityDTOs converts a slice of activities
func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = ToActivityDTO(a)
	}
	return dtos
}
