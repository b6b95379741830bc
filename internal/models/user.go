package models

import (
	"time"

	"opina/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Name                string         `gorm:"size:50;not null" json:"name"`
	Email               string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash        string         `gorm:"size:255;not null" json:"-"`
	Role                string         `gorm:"size:20;not null;index;default:'MEMBER'" json:"role"`
	SubscriptionType    string         `gorm:"size:20;not null;default:'free'" json:"subscription_type"` // free | premium | vip
	SubscriptionEndDate *time.Time     `json:"subscription_end_date"`
	Phone               string         `gorm:"size:20" json:"phone"`
	Address             JSONMap        `gorm:"type:json" json:"address,omitempty"`
	IsActive            bool           `gorm:"default:true" json:"is_active"`
	LastLogin           *time.Time     `json:"last_login"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// IsSubscriber reports whether the user has any paid tier active at t.
func (u *User) IsSubscriber(t time.Time) bool {
	return u.SubscriptionType != domain.TierFree &&
		u.SubscriptionEndDate != nil &&
		t.Before(*u.SubscriptionEndDate)
}

// IsVIPActive reports whether the user may convert points to cash.
// Only an unexpired VIP subscription qualifies.
func (u *User) IsVIPActive(t time.Time) bool {
	return u.SubscriptionType == domain.TierVIP && u.IsSubscriber(t)
}
