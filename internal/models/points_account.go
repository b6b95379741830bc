package models

import (
	"time"

	"gorm.io/gorm"
)

// PointsAccount is a user's point balance. TotalPoints is lifetime earned points
// and equals AvailablePoints + UsedPoints at all times; every mutation goes
// through the ledger repository, which keeps the three in lockstep.
type PointsAccount struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	AvailablePoints int            `gorm:"not null;default:0" json:"available_points"`
	UsedPoints      int            `gorm:"not null;default:0" json:"used_points"`
	TotalPoints     int            `gorm:"not null;default:0" json:"total_points"`
	LastEarned      *time.Time     `json:"last_earned"`
	LastUsed        *time.Time     `json:"last_used"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsAccount) TableName() string { return "points_accounts" }
