package models

import "time"

type Role string

const (
	RoleOwner    Role = "Owner"
	RoleEmployee Role = "Employee"
	RoleGuest    Role = "Guest"
)

type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	Role         Role      `gorm:"size:20;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken rows back staff sessions; guest sessions keep their
// refresh token on the Guest row instead.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"size:512;uniqueIndex;not null"`
	AccountID uint   `gorm:"index;not null"`
	Account   Account
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
