package models

import (
	"time"

	"gorm.io/gorm"
)

// CashConversion is a request to pay out points as money. Points are debited
// atomically with creation; a later transition to failed or cancelled refunds
// them through the ledger.
type CashConversion struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	PointsConverted int            `gorm:"not null" json:"points_converted"`
	CashAmount      float64        `gorm:"not null" json:"cash_amount"`
	FeeAmount       float64        `gorm:"not null" json:"fee_amount"`
	NetAmount       float64        `gorm:"not null" json:"net_amount"`
	Status          string         `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	PaymentMethod   string         `gorm:"size:20;not null" json:"payment_method"`
	PaymentDetails  JSONMap        `gorm:"type:json" json:"payment_details,omitempty"`
	ProcessedAt     *time.Time     `json:"processed_at"`
	TransactionID   string         `gorm:"size:64" json:"transaction_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CashConversion) TableName() string { return "cash_conversions" }
