package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"size:1000" json:"description"`
	PointsPrice int            `gorm:"not null" json:"points_price"`
	Category    string         `gorm:"size:100;not null;default:'general'" json:"category"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	WeightKg    float64        `gorm:"not null;default:0.1" json:"weight_kg"`
	Dimensions  *Dimensions    `gorm:"type:json" json:"dimensions,omitempty"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }
