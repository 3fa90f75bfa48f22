package job

import (
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/logger"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// FollowAuditJob 关注计数兜底审计。消费链路出问题时计数会暂时漂移，
// 这里定期把脏集合里的用户按边表重算一遍，保证最终收敛
type FollowAuditJob struct {
	userFollowSvc service.UserFollowService
}

func NewFollowAuditJob(userFollowSvc service.UserFollowService) *FollowAuditJob {
	return &FollowAuditJob{
		userFollowSvc: userFollowSvc,
	}
}

func (s *FollowAuditJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 先把脏集合换名占走，窗口内的新脏数据落到原 key 等下一轮
	processingKey := consts.UserFollowDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.UserFollowDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get dirty set error", "err", err)
		return
	}

	userIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert set to int slice error", "err", err)
		return
	}

	audited := 0
	for _, userID := range userIDs {
		_, _, err = s.userFollowSvc.ReconcileCounts(ctx, userID)
		if err != nil {
			log.ErrorContext(ctx, "reconcile follow counts error", "user_id", userID, "err", err)
			continue
		}
		audited++
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete dirty set error", "err", err)
	}

	log.InfoContext(ctx, "follow count audit finished", "dirty", len(userIDs), "audited", audited)
}
