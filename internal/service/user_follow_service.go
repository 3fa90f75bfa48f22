package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

const FollowPageSize = 20

type UserFollowService interface {
	CreateUserFollow(ctx context.Context, followerID uint64, followingID uint64) error
	DeleteUserFollow(ctx context.Context, followerID uint64, followingID uint64) error
	GetSomeoneIsFollowing(ctx context.Context, followerID uint64, followingID uint64) (bool, error)
	GetUserFollowCounts(ctx context.Context, userID uint64) (*dto.FollowCountDTO, error)
	GetFollowerIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error)
	GetFollowingIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error)
	ReconcileCounts(ctx context.Context, userID uint64) (int64, int64, error)
}

type UserFollowServiceImpl struct {
	userRepo       repository.UserRepo
	userFollowRepo repository.UserFollowRepo
	notifyService  NotifyService
}

func NewUserFollowService(userRepo repository.UserRepo, userFollowRepo repository.UserFollowRepo, notifyService NotifyService) UserFollowService {
	return &UserFollowServiceImpl{
		userRepo:       userRepo,
		userFollowRepo: userFollowRepo,
		notifyService:  notifyService,
	}
}

// CreateUserFollow 只写关注边，双方的聚合计数由下游对账消费者收敛
func (s *UserFollowServiceImpl) CreateUserFollow(ctx context.Context, followerID uint64, followingID uint64) error {
	if followerID == followingID {
		return ErrUserFollowSelf
	}

	target, err := s.userRepo.GetUserById(ctx, followingID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetUserInvalid
	}

	follow, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if follow != nil {
		return ErrUserFollowExist
	}

	err = s.userFollowRepo.CreateUserFollow(ctx, &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	s.markDirty(ctx, followerID, followingID)

	// 被关注方的站内信走请求内旁路，每次成功关注只发一条
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifyService.NotifyFollowed(notifyCtx, followerID, followingID); err != nil {
			log.Warn("followed notification failed", "follower_id", followerID, "following_id", followingID, "err", err)
		}
	}()
	return nil
}

func (s *UserFollowServiceImpl) DeleteUserFollow(ctx context.Context, followerID uint64, followingID uint64) error {
	follow, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if follow == nil {
		return ErrUserFollowNotFound
	}

	err = s.userFollowRepo.DeleteUserFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}

	s.markDirty(ctx, followerID, followingID)
	return nil
}

func (s *UserFollowServiceImpl) GetSomeoneIsFollowing(ctx context.Context, followerID uint64, followingID uint64) (bool, error) {
	follow, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return follow != nil, nil
}

func (s *UserFollowServiceImpl) GetUserFollowCounts(ctx context.Context, userID uint64) (*dto.FollowCountDTO, error) {
	followerCount, err := s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.userFollowRepo.GetFollowerCount)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.userFollowRepo.GetFollowingCount)
	if err != nil {
		return nil, err
	}
	return &dto.FollowCountDTO{
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}, nil
}

func (s *UserFollowServiceImpl) GetFollowerIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error) {
	if limit <= 0 || limit > FollowPageSize {
		limit = FollowPageSize
	}
	return s.userFollowRepo.GetFollowerIDList(ctx, userID, cursor, limit)
}

func (s *UserFollowServiceImpl) GetFollowingIDList(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error) {
	if limit <= 0 || limit > FollowPageSize {
		limit = FollowPageSize
	}
	return s.userFollowRepo.GetFollowingIDList(ctx, userID, cursor, limit)
}

// ReconcileCounts 以边表重算计数并覆盖用户行，然后刷新缓存。
// 对账消费者和审计任务共用这条路径
func (s *UserFollowServiceImpl) ReconcileCounts(ctx context.Context, userID uint64) (int64, int64, error) {
	followerCount, followingCount, err := s.userFollowRepo.SyncFollowCounts(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	id := strconv.FormatUint(userID, 10)
	if err = redis.SetWithExpiration(ctx, consts.UserFollowerCountKey+id, followerCount, time.Hour*1); err != nil {
		log.Warn("refresh follower count cache failed", "user_id", userID, "err", err)
	}
	if err = redis.SetWithExpiration(ctx, consts.UserFollowingCountKey+id, followingCount, time.Hour*1); err != nil {
		log.Warn("refresh following count cache failed", "user_id", userID, "err", err)
	}

	return followerCount, followingCount, nil
}

// markDirty 把本次边变更涉及的双方塞进脏集合，审计任务兜底对账。
// 失败只记日志，主流程不因缓存侧问题回滚
func (s *UserFollowServiceImpl) markDirty(ctx context.Context, followerID uint64, followingID uint64) {
	err := redis.SAddMembers(ctx, consts.UserFollowDirtyKey,
		strconv.FormatUint(followerID, 10),
		strconv.FormatUint(followingID, 10))
	if err != nil {
		log.Warn("mark follow dirty failed", "follower_id", followerID, "following_id", followingID, "err", err)
	}
}

type fetchCountFunc func(ctx context.Context, userID uint64) (int64, error)

func (s *UserFollowServiceImpl) getCountCommon(
	ctx context.Context,
	userID uint64,
	keyPrefix string,
	fetchDB fetchCountFunc,
) (int64, error) {
	key := keyPrefix + strconv.FormatUint(userID, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return count, nil
}
