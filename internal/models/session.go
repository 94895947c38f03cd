package models

import "time"

// Session stores one login: who is logged in and which page they are on.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID
	Username  string    `gorm:"size:64;index;not null"`
	Role      string    `gorm:"size:16;not null"`
	Page      string    `gorm:"size:16;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null"`
	CreatedAt time.Time
}
