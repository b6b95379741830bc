package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a points redemption for physical products. Items hold product
// snapshots so later catalog edits never rewrite purchase history. Shipping
// cost is cash, stored alongside but never deducted from points.
type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	OrderNumber       string         `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	Status            string         `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	TotalPoints       int            `gorm:"not null" json:"total_points"`
	ShippingCost      float64        `gorm:"not null;default:0" json:"shipping_cost"`
	ShippingAddress   JSONMap        `gorm:"type:json;not null" json:"shipping_address"`
	TrackingCode      string         `gorm:"size:50" json:"tracking_code"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery"`
	Notes             string         `gorm:"size:1000" json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PointsPrice     int             `gorm:"not null" json:"points_price"` // per unit, at purchase time
	ProductSnapshot ProductSnapshot `gorm:"type:json;not null" json:"product_snapshot"`
	CreatedAt       time.Time       `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string { return "order_items" }
