package models

import (
	"gorm.io/gorm"
)

// User represents an admin account able to mutate the catalog.
// Password holds a bcrypt hash and is never serialized.
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	gorm.Model
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
