package kafka

import (
	"Murmur/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// MessageNotifyHandler 消息推送消费者。
// 会话行的 max_msg_seq 每增长一次就是一条新消息事件，
// Old 里带 max_msg_seq 的 UPDATE 才是消息，其它字段的更新不触发
type MessageNotifyHandler struct {
	notifyService service.NotifyService
}

func NewMessageNotifyHandler(notifyService service.NotifyService) *MessageNotifyHandler {
	return &MessageNotifyHandler{
		notifyService: notifyService,
	}
}

func (s *MessageNotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("message notify consumer setup")
	return nil
}

func (s *MessageNotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("message notify consumer cleanup")
	return nil
}

func (s *MessageNotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-conversations consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-conversations process batch error", "err", err)
		return err
	}
	log.Info("topic-conversations consume claim end")
	return nil
}

func (s *MessageNotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "conversations")
	if err != nil || canalMsg == nil {
		return nil
	}
	if canalMsg.Type != UPDATE {
		return nil
	}

	for i, row := range canalMsg.Data {
		if i >= len(canalMsg.Old) {
			break
		}
		if _, changed := canalMsg.Old[i]["max_msg_seq"]; !changed {
			continue
		}

		conversationID := StrToUint64(row["id"])
		if conversationID == 0 {
			continue
		}
		if err := s.notifyService.NotifyNewMessage(ctx, conversationID); err != nil {
			return err
		}
	}
	return nil
}
