package kafka

import (
	"Murmur/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// UserSearchHandler users 表变更同步到搜索索引。
// 写入带外部版本号（binlog 时间戳），旧事件重放会被 ES 拒绝；
// DELETE 事件把文档移出索引，账号注销到这里才算收尾
type UserSearchHandler struct {
	userESRepo es.UserRepo
}

func NewUserSearchHandler(userESRepo es.UserRepo) *UserSearchHandler {
	return &UserSearchHandler{
		userESRepo: userESRepo,
	}
}

func (s *UserSearchHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user search consumer setup")
	return nil
}

func (s *UserSearchHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user search consumer cleanup")
	return nil
}

func (s *UserSearchHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-users consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-users process batch error", "err", err)
		return err
	}
	log.Info("topic-users consume claim end")
	return nil
}

func (s *UserSearchHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "users")
	if err != nil || canalMsg == nil {
		return nil
	}

	for _, row := range canalMsg.Data {
		userID := StrToUint64(row["id"])
		if userID == 0 {
			continue
		}

		switch canalMsg.Type {
		case INSERT, UPDATE:
			user := toUserES(userID, row)
			if err := s.userESRepo.IndexUser(ctx, user, canalMsg.TS); err != nil {
				return err
			}
		case DELETE:
			if err := s.userESRepo.DeleteUser(ctx, userID); err != nil {
				return err
			}
		}
	}
	return nil
}

func toUserES(userID uint64, row map[string]interface{}) *es.UserES {
	user := &es.UserES{
		ID:             userID,
		Username:       StrToString(row["username"]),
		Nickname:       StrToString(row["nickname"]),
		Avatar:         StrToString(row["avatar"]),
		FollowerCount:  StrToInt64(row["follower_count"]),
		FollowingCount: StrToInt64(row["following_count"]),
	}
	if row["bio"] != nil {
		bio := StrToString(row["bio"])
		user.Bio = &bio
	}
	return user
}
