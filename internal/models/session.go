package models

import "time"

// Session maps a browser cookie to the signed token issued at login.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID
	Token     string    `gorm:"size:1024;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
