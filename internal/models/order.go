package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusRejected   OrderStatus = "Rejected"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusPaid       OrderStatus = "Paid"
)

// DishSnapshot freezes a dish's fields at the moment an order is
// placed. Rows are never updated after creation: editing or deleting
// the live dish must not change what the guest was charged.
type DishSnapshot struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Price       int64      `gorm:"not null" json:"price"`
	Description string     `gorm:"size:1000" json:"description"`
	Image       string     `gorm:"size:255" json:"image"`
	Status      DishStatus `gorm:"size:20;not null" json:"status"`
	DishID      *uint      `gorm:"index" json:"dish_id"`
	Dish        *Dish      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Order is one dish-quantity line. Immutable after creation except
// for Status, OrderHandlerID and a dish swap by staff (which makes a
// fresh snapshot rather than touching the old one).
type Order struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	GuestID        *uint        `gorm:"index" json:"guest_id"`
	Guest          *Guest       `json:"guest,omitempty"`
	TableNumber    *int         `gorm:"index" json:"table_number"`
	DishSnapshotID uint         `gorm:"uniqueIndex;not null" json:"dish_snapshot_id"`
	DishSnapshot   DishSnapshot `json:"dish_snapshot"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	OrderHandlerID *uint        `json:"order_handler_id"`
	OrderHandler   *Account     `gorm:"foreignKey:OrderHandlerID" json:"order_handler,omitempty"`
	Status         OrderStatus  `gorm:"size:20;index;not null" json:"status"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
