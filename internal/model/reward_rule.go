package model

import "time"

// RewardRule 全局唯一的里程碑奖励规则，普通调用方只读
type RewardRule struct {
	ID                uint64    `gorm:"primaryKey"`
	FollowerThreshold int64     `gorm:"not null"`
	RewardAmount      int64     `gorm:"not null"`
	UpdatedAt         time.Time
}

func (RewardRule) TableName() string {
	return "reward_rules"
}
