package kafka

import (
	"Murmur/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// RewardHandler 奖励发放消费者。与计数对账消费者监听同一个主题，
// 但属于独立消费组，各自维护位移，互不影响进度
type RewardHandler struct {
	rewardService service.RewardService
}

func NewRewardHandler(rewardService service.RewardService) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
	}
}

func (s *RewardHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("reward consumer setup")
	return nil
}

func (s *RewardHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("reward consumer cleanup")
	return nil
}

func (s *RewardHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows reward consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows reward process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows reward consume claim end")
	return nil
}

// logic 只关心新增关注边：被关注方粉丝数可能刚跨过阈值。
// 取关不会触发发放，也不会回收已发的奖励
func (s *RewardHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows")
	if err != nil || canalMsg == nil {
		return nil
	}
	if canalMsg.Type != INSERT {
		return nil
	}

	for _, row := range canalMsg.Data {
		followingID := StrToUint64(row["following_id"])
		if followingID == 0 {
			continue
		}
		granted, err := s.rewardService.MaybeIssueReward(ctx, followingID)
		if err != nil {
			return err
		}
		if granted {
			log.Info("milestone reward issued", "user_id", followingID)
		}
	}
	return nil
}
