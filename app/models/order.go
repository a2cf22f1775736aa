package models

import "gorm.io/gorm"

// OrderStatus is the lifecycle label on an order. The expected flow is
// Pending, then Active, then Cancelled or Delivered, but the update path
// accepts any status after any other.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusActive    OrderStatus = "Active"
	StatusCancelled OrderStatus = "Cancelled"
	StatusDelivered OrderStatus = "Delivered"
)

// Valid reports whether s is one of the defined statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCancelled, StatusDelivered:
		return true
	}
	return false
}

// Order is a purchase of one item. Amount is the persisted total,
// unit amount times quantity, computed at creation.
type Order struct {
	gorm.Model
	CustomerID uint        `gorm:"not null;index" json:"customer_id"`
	Item       string      `gorm:"size:100;not null" json:"item"`
	Amount     float64     `gorm:"not null" json:"amount"`
	Quantity   int         `gorm:"not null;default:1" json:"quantity"`
	Status     OrderStatus `gorm:"size:20;not null;default:Pending" json:"status"`
}
