package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserFollowCount(ctx context.Context, id uint64, followerCount int64, followingCount int64) error
	GrantMilestoneReward(ctx context.Context, id uint64, amount int64, description string) (bool, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0)
	result := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return user, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepoImpl) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// UpdateUserFollowCount 覆盖写聚合计数，调用方负责先从边表重新推导
func (s *UserRepoImpl) UpdateUserFollowCount(ctx context.Context, id uint64, followerCount int64, followingCount int64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"follower_count":  followerCount,
			"following_count": followingCount,
		}).Error
}

// GrantMilestoneReward 在一个事务里完成奖励发放：
// 行锁下复查 reward_claimed 守卫，入账、置位、写流水，三者同生共死。
// 返回 false 表示守卫已置位（重复事件），未做任何修改
func (s *UserRepoImpl) GrantMilestoneReward(ctx context.Context, id uint64, amount int64, description string) (bool, error) {
	granted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if user.RewardClaimed {
			return nil
		}

		if err := tx.Model(&model.User{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
				"reward_claimed": true,
			}).Error; err != nil {
			return err
		}

		record := &model.Transaction{
			UserID:      id,
			Type:        model.TransactionTypeReward,
			Amount:      amount,
			Description: description,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		granted = true
		return nil
	})
	return granted, err
}
