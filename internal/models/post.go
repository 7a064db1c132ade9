package models

import "time"

// Post is a dashboard entry owned by exactly one user. Ownership is enforced
// in handler queries, not by a database constraint.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	ImageURL  string    `gorm:"size:255" json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
