package model

import "time"

// UserFollow 单实体关注边，双向查询都走这一张表，
// 避免在两个父文档下各写一份导致的跨文档一致性问题
type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey" json:"followerId"`
	FollowingID uint64    `gorm:"primaryKey;index:idx_following_id" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
