package models

import "time"

// Guest is created at table login and lives for the session.
// TableNumber goes nil when staff delete the table out from under an
// active session; ordering then requires a fresh login.
type Guest struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Name                  string     `gorm:"size:100;not null" json:"name"`
	TableNumber           *int       `gorm:"index" json:"table_number"`
	RefreshToken          *string    `gorm:"size:512" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
