package kafka

import (
	"Murmur/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// FollowCounterHandler 关注边变更的计数对账消费者。
// 不做增量加减，而是对事件涉及的双方按边表全量重算：
// 同一条事件投递多少次、以什么顺序到达，结果都一样
type FollowCounterHandler struct {
	userFollowService service.UserFollowService
}

func NewFollowCounterHandler(userFollowService service.UserFollowService) *FollowCounterHandler {
	return &FollowCounterHandler{
		userFollowService: userFollowService,
	}
}

func (s *FollowCounterHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("follow counter consumer setup")
	return nil
}

func (s *FollowCounterHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("follow counter consumer cleanup")
	return nil
}

func (s *FollowCounterHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows counter consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows counter process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows counter consume claim end")
	return nil
}

func (s *FollowCounterHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows")
	if err != nil || canalMsg == nil {
		return nil
	}
	if canalMsg.Type != INSERT && canalMsg.Type != DELETE {
		return nil
	}

	for _, row := range canalMsg.Data {
		followerID := StrToUint64(row["follower_id"])
		followingID := StrToUint64(row["following_id"])
		if followerID == 0 || followingID == 0 {
			log.Warn("follow event with invalid ids skipped", "msg_key", string(msg.Key))
			continue
		}

		if _, _, err := s.userFollowService.ReconcileCounts(ctx, followingID); err != nil {
			return err
		}
		if _, _, err := s.userFollowService.ReconcileCounts(ctx, followerID); err != nil {
			return err
		}
	}
	return nil
}
