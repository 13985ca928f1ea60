package models

import "time"

// Post is an image posted by a user. PostID order is the canonical
// chronological order of the feed.
type Post struct {
	PostID   int64     `gorm:"primaryKey;autoIncrement;column:postid"`
	Filename string    `gorm:"column:filename;size:64;not null"`
	Owner    string    `gorm:"column:owner;size:20;not null;index"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Post) TableName() string {
	return "posts"
}
