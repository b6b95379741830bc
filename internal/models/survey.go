package models

import (
	"time"

	"gorm.io/gorm"
)

// Survey carries a finite point pool. Publishing sets InitialPoints and
// RemainingPoints; each completion burns PointsReward from the pool until it
// can no longer cover a reward.
type Survey struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:100;not null" json:"title"`
	Description      string         `gorm:"size:500;not null" json:"description"`
	Questions        QuestionList   `gorm:"type:json;not null" json:"questions"`
	PointsReward     int            `gorm:"not null" json:"points_reward"`
	InitialPoints    int            `gorm:"not null" json:"initial_points"`
	RemainingPoints  int            `gorm:"not null" json:"remaining_points"`
	Category         string         `gorm:"size:20;not null;default:'general';index" json:"category"`
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          *time.Time     `json:"end_date"`
	MaxResponses     *int           `json:"max_responses"`
	CurrentResponses int            `gorm:"not null;default:0" json:"current_responses"`
	CreatedBy        uint           `gorm:"not null;index" json:"created_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Survey) TableName() string { return "surveys" }

// CanAccept reports whether the survey can take one more completion at t.
// It does not know about per-user participation; callers check that separately.
func (s *Survey) CanAccept(t time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.EndDate != nil && t.After(*s.EndDate) {
		return false
	}
	if s.MaxResponses != nil && s.CurrentResponses >= *s.MaxResponses {
		return false
	}
	return s.RemainingPoints >= s.PointsReward
}

// Expired reports whether the survey is past its end date or deactivated.
func (s *Survey) Expired(t time.Time) bool {
	return !s.IsActive || (s.EndDate != nil && t.After(*s.EndDate))
}
