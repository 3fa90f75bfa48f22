package model

import (
	"time"
)

type User struct {
	ID       uint64  `gorm:"primaryKey"`
	Username *string `gorm:"type:varchar(50);uniqueIndex:idx_username"`
	Password *string `gorm:"type:varchar(255)"`
	Nickname string  `gorm:"type:varchar(50)"`
	Bio      *string `gorm:"type:varchar(255)"`
	Avatar   string  `gorm:"type:varchar(255)"`
	IsAdmin  bool    `gorm:"type:tinyint(1);default:0"`

	// 聚合计数，唯一写入方是关注计数对账消费者与审计任务
	FollowerCount  int64 `gorm:"not null;default:0"`
	FollowingCount int64 `gorm:"not null;default:0"`
	PostsCount     int64 `gorm:"not null;default:0"`

	// 钱包余额与里程碑奖励标记，RewardClaimed 只允许 false -> true 一次
	WalletBalance int64 `gorm:"not null;default:0"`
	RewardClaimed bool  `gorm:"type:tinyint(1);default:0"`

	NotificationsEnabled bool    `gorm:"type:tinyint(1);default:1"`
	PushToken            *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
