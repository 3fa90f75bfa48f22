package service

import (
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/mongo"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/security"
	"Murmur/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// PurgeService 账号注销编排。
// 第一阶段是关系型数据的单事务硬删除，失败整体回滚，账号保持可用；
// 第二阶段对异构存储做尽力清理，失败只记日志，副本数据保留也不泄露入口；
// 第三阶段吊销在途凭证，这一步失败必须让调用方看到错误
type PurgeService interface {
	PurgeUser(ctx context.Context, userID uint64) error
}

type PurgeServiceImpl struct {
	purgeRepo   repository.PurgeRepo
	messageRepo mongo.MessageRepo
	sysBoxRepo  mongo.SysBoxRepo
}

func NewPurgeService(
	purgeRepo repository.PurgeRepo,
	messageRepo mongo.MessageRepo,
	sysBoxRepo mongo.SysBoxRepo,
) PurgeService {
	return &PurgeServiceImpl{
		purgeRepo:   purgeRepo,
		messageRepo: messageRepo,
		sysBoxRepo:  sysBoxRepo,
	}
}

func (s *PurgeServiceImpl) PurgeUser(ctx context.Context, userID uint64) error {
	result, err := s.purgeRepo.PurgeUserData(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "purge transaction failed", "user_id", userID, "err", err)
		return ErrPurgeIncomplete
	}
	if !result.Found {
		// 重复提交的注销请求，第一阶段已经完成过
		log.InfoContext(ctx, "purge skipped, user already removed", "user_id", userID)
		return s.revokeCredentials(ctx, userID)
	}

	log.InfoContext(ctx, "purge transaction committed",
		"user_id", userID,
		"deleted_conversations", len(result.DeletedConversationIDs),
		"recounted_counterparts", len(result.CounterpartIDs))

	s.cleanupBestEffort(ctx, userID, result)

	return s.revokeCredentials(ctx, userID)
}

// cleanupBestEffort 并行清理 MongoDB / MinIO / Redis 副本，失败不拦截注销
func (s *PurgeServiceImpl) cleanupBestEffort(ctx context.Context, userID uint64, result *repository.PurgeResult) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deleted, err := s.messageRepo.DeleteByConversationIDs(gctx, result.DeletedConversationIDs)
		if err != nil {
			log.WarnContext(gctx, "purge messages failed", "user_id", userID, "err", err)
			return nil
		}
		log.InfoContext(gctx, "purge messages done", "user_id", userID, "deleted", deleted)
		return nil
	})

	g.Go(func() error {
		deleted, err := s.sysBoxRepo.DeleteByReceiver(gctx, userID)
		if err != nil {
			log.WarnContext(gctx, "purge notifications failed", "user_id", userID, "err", err)
			return nil
		}
		log.InfoContext(gctx, "purge notifications done", "user_id", userID, "deleted", deleted)
		return nil
	})

	g.Go(func() error {
		prefix := fmt.Sprintf("users/%d/", userID)
		if err := minio.RemovePrefix(gctx, prefix); err != nil {
			log.WarnContext(gctx, "purge media failed", "user_id", userID, "prefix", prefix, "err", err)
			return nil
		}
		log.InfoContext(gctx, "purge media done", "user_id", userID, "prefix", prefix)
		return nil
	})

	g.Go(func() error {
		id := strconv.FormatUint(userID, 10)
		err := redis.DeleteKey(gctx,
			consts.UserSimpleInfoKey+id,
			consts.UserFollowerCountKey+id,
			consts.UserFollowingCountKey+id)
		if err != nil {
			log.WarnContext(gctx, "purge cache failed", "user_id", userID, "err", err)
		}
		return nil
	})

	_ = g.Wait()
}

// revokeCredentials 给该用户打吊销标记，有效期覆盖 JWT 最长寿命。
// 鉴权中间件逐请求检查这个标记，在途 token 随之失效
func (s *PurgeServiceImpl) revokeCredentials(ctx context.Context, userID uint64) error {
	key := consts.UserRevokedKey + strconv.FormatUint(userID, 10)
	err := redis.SetWithExpiration(ctx, key, true, security.JWTExpirationTime)
	if err != nil {
		log.ErrorContext(ctx, "revoke credentials failed", "user_id", userID, "err", err)
		return ErrPurgeIncomplete
	}
	log.InfoContext(ctx, "credentials revoked", "user_id", userID)
	return nil
}
