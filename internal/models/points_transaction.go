package models

import (
	"time"

	"gorm.io/gorm"
)

// PointsTransaction is an append-only ledger entry. Amount is signed (credits
// positive, debits negative, never zero) and BalanceAfter snapshots the
// available balance the entry produced, so replaying the ledger from zero
// reproduces the account.
type PointsTransaction struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Type         string         `gorm:"size:20;not null;index" json:"type"` // earned, spent, refund, bonus, penalty
	Amount       int            `gorm:"not null" json:"amount"`
	Description  string         `gorm:"size:500;not null" json:"description"`
	OrderID      *uint          `gorm:"index" json:"order_id,omitempty"`
	SurveyID     *uint          `gorm:"index" json:"survey_id,omitempty"`
	ConversionID *uint          `gorm:"index" json:"conversion_id,omitempty"`
	BalanceAfter int            `gorm:"not null" json:"balance_after"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsTransaction) TableName() string { return "points_transactions" }
