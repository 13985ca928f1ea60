package models

import "time"

// Like is unique per (Owner, PostID).
type Like struct {
	LikeID  int64     `gorm:"primaryKey;autoIncrement;column:likeid"`
	Owner   string    `gorm:"column:owner;size:20;not null;uniqueIndex:idx_likes_owner_postid"`
	PostID  int64     `gorm:"column:postid;not null;uniqueIndex:idx_likes_owner_postid;index"`
	Created time.Time `gorm:"column:created;autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Like) TableName() string {
	return "likes"
}
