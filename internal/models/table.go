package models

import "time"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "Available"
	TableStatusHidden    TableStatus = "Hidden"
	TableStatusReserved  TableStatus = "Reserved"
)

// Table is identified by its physical number, not a surrogate id.
// Token authenticates guest logins at that table and can be rotated
// by staff to kick everyone off the table.
type Table struct {
	Number    int         `gorm:"primaryKey" json:"number"`
	Capacity  int         `gorm:"not null" json:"capacity"`
	Status    TableStatus `gorm:"size:20;not null;default:'Available'" json:"status"`
	Token     string      `gorm:"size:64;not null" json:"token"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
