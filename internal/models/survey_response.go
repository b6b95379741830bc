package models

import (
	"time"
)

// SurveyResponse records one user's completion of one survey. The composite
// unique index is what makes completion at-most-once even under racing submits.
type SurveyResponse struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_survey_responses_user_survey" json:"user_id"`
	SurveyID     uint       `gorm:"not null;uniqueIndex:idx_survey_responses_user_survey" json:"survey_id"`
	Answers      AnswerList `gorm:"type:json;not null" json:"answers"`
	PointsEarned int        `gorm:"not null" json:"points_earned"`
	CompletedAt  time.Time  `json:"completed_at"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Survey Survey `gorm:"foreignKey:SurveyID" json:"survey,omitempty"`
}

func (SurveyResponse) TableName() string { return "survey_responses" }
