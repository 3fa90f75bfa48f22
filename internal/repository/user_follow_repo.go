package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserFollowRepo interface {
	CreateUserFollow(ctx context.Context, follow *model.UserFollow) error
	DeleteUserFollow(ctx context.Context, followerID uint64, followingID uint64) error
	GetUserFollow(ctx context.Context, followerID uint64, followingID uint64) (*model.UserFollow, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowerIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error)
	GetFollowingIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error)
	SyncFollowCounts(ctx context.Context, userID uint64) (int64, int64, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, follow *model.UserFollow) error {
	return s.db.WithContext(ctx).Create(follow).Error
}

func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, followerID uint64, followingID uint64) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.UserFollow{}).Error
}

func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, followerID uint64, followingID uint64) (*model.UserFollow, error) {
	follow := &model.UserFollow{}
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(follow)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return follow, nil
}

func (s *UserFollowRepoImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Count(&count)
	return count, result.Error
}

func (s *UserFollowRepoImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count)
	return count, result.Error
}

func (s *UserFollowRepoImpl) GetFollowerIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	result := s.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("following_id = ? AND follower_id > ?", userID, cursor).
		Order("follower_id ASC").
		Limit(limit).
		Pluck("follower_id", &ids)
	return ids, result.Error
}

func (s *UserFollowRepoImpl) GetFollowingIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	result := s.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("follower_id = ? AND following_id > ?", userID, cursor).
		Order("following_id ASC").
		Limit(limit).
		Pluck("following_id", &ids)
	return ids, result.Error
}

// SyncFollowCounts 以边表为准重算并覆盖写该用户的粉丝数与关注数。
// 重算是幂等的，重复投递、乱序投递都会收敛到同一个结果
func (s *UserFollowRepoImpl) SyncFollowCounts(ctx context.Context, userID uint64) (int64, int64, error) {
	var followerCount, followingCount int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserFollow{}).
			Where("following_id = ?", userID).
			Count(&followerCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.UserFollow{}).
			Where("follower_id = ?", userID).
			Count(&followingCount).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"follower_count":  followerCount,
				"following_count": followingCount,
			}).Error
	})
	return followerCount, followingCount, err
}
