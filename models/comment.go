package models

import "time"

type Comment struct {
	CommentID int64     `gorm:"primaryKey;autoIncrement;column:commentid"`
	Owner     string    `gorm:"column:owner;size:20;not null"`
	PostID    int64     `gorm:"column:postid;not null;index"`
	Text      string    `gorm:"column:text;size:1024;not null"`
	Created   time.Time `gorm:"column:created;autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Comment) TableName() string {
	return "comments"
}
