package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the database
type User struct {
	Username string    `gorm:"primaryKey;column:username;size:20"`
	Fullname string    `gorm:"column:fullname;size:40;not null"`
	Email    string    `gorm:"column:email;size:40;not null"`
	Filename string    `gorm:"column:filename;size:64;not null"`
	Password string    `gorm:"column:password;size:256;not null" json:"-"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Post{}, &Comment{}, &Like{}, &Follow{})
}
