package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	MinEmergencyRate     = 5
	MaxEmergencyRate     = 10
	DefaultEmergencyRate = 10
)

// User represents application user. The username is the primary key and is
// what financial entries point back to.
type User struct {
	Username      string `gorm:"primaryKey;size:64"`
	PasswordHash  string `gorm:"size:255;not null"`
	Role          string `gorm:"size:16;not null;default:user"`
	ProfilePic    []byte
	EmergencyRate int `gorm:"not null;default:10"` // percent, 5-10
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
