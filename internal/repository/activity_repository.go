package repository

import (
	"github.com/promanagex/promanagex-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity row
func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

// ListByIssue lists an issue's activities newest first. The id tiebreak
// keeps rows written within the same timestamp in reverse insertion order.
func (r *GormActivityRepository) ListByIssue(issueID uint64) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.
		Preload("User").
		Where("issue_id = ?", issueID).
		Order("created_at DESC, id DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
