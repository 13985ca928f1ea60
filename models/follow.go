package models

import "time"

// Follow is a directed edge: Follower follows Followee.
type Follow struct {
	Follower string    `gorm:"primaryKey;column:username1;size:20"`
	Followee string    `gorm:"primaryKey;column:username2;size:20"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Follow) TableName() string {
	return "following"
}
