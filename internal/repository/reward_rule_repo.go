package repository

import (
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRuleRepo interface {
	GetRule(ctx context.Context) (*model.RewardRule, error)
	UpsertRule(ctx context.Context, threshold int64, amount int64) error
}

type RewardRuleRepoImpl struct {
	db *gorm.DB
}

func NewRewardRuleRepo(db *gorm.DB) RewardRuleRepo {
	return &RewardRuleRepoImpl{db: db}
}

// GetRule 读取全局规则，未配置时回落到内置默认值
func (s *RewardRuleRepoImpl) GetRule(ctx context.Context) (*model.RewardRule, error) {
	rule := &model.RewardRule{}
	result := s.db.WithContext(ctx).First(rule)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return &model.RewardRule{
				FollowerThreshold: consts.DefaultFollowerThreshold,
				RewardAmount:      consts.DefaultRewardAmount,
			}, nil
		}
		return nil, result.Error
	}

	return rule, nil
}

func (s *RewardRuleRepoImpl) UpsertRule(ctx context.Context, threshold int64, amount int64) error {
	rule := &model.RewardRule{
		ID:                1,
		FollowerThreshold: threshold,
		RewardAmount:      amount,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"follower_threshold", "reward_amount", "updated_at"}),
	}).Create(rule).Error
}
