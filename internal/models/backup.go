package models

import "time"

// Backup is the index row of an encrypted entries snapshot on disk.
type Backup struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:64;index;not null"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:512;not null"`
	Size      int64
	CreatedAt time.Time
}
