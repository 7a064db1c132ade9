package models

import "time"

// User represents a registered account. The password is stored exactly as
// submitted; there is no hashing anywhere in the credential path.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:64;index;not null" json:"username"`
	Email     string     `gorm:"size:128;index" json:"email"`
	Password  string     `gorm:"size:128" json:"password"`
	FirstName string     `gorm:"size:64" json:"firstName"`
	LastName  string     `gorm:"size:64" json:"lastName"`
	Mobile    string     `gorm:"size:32" json:"mobile"`
	Gender    string     `gorm:"size:16" json:"gender"`
	DOB       *time.Time `json:"dob"`
	Address   string     `gorm:"size:255" json:"address"`
	Zipcode   string     `gorm:"size:16" json:"zipcode"`
	Country   string     `gorm:"size:64" json:"country"`
	City      string     `gorm:"size:64" json:"city"`
	State     string     `gorm:"size:64" json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
