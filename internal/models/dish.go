package models

import "time"

type DishStatus string

const (
	DishStatusAvailable   DishStatus = "Available"
	DishStatusUnavailable DishStatus = "Unavailable"
	DishStatusHidden      DishStatus = "Hidden"
)

// Price is in minor currency units (VND has none, so whole dong) to
// keep revenue math exact.
type Dish struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Price       int64      `gorm:"not null" json:"price"`
	Description string     `gorm:"size:1000" json:"description"`
	Image       string     `gorm:"size:255" json:"image"`
	Status      DishStatus `gorm:"size:20;not null;default:'Available'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
