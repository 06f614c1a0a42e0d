package models

import (
	"time"
)

// User represents an account row in the remote store. IDs are opaque
// non-numeric tokens issued by the auth provider.
type User struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
