package service

import (
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/mongo"
	"Murmur/internal/pkg/push"
	"Murmur/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"
)

// NotifyService 通知分发：站内信落库加设备推送。
// 推送失败只记日志不重试，站内信才是可靠渠道
type NotifyService interface {
	NotifyFollowed(ctx context.Context, followerID uint64, followingID uint64) error
	NotifyNewMessage(ctx context.Context, conversationID uint64) error
}

type NotifyServiceImpl struct {
	userRepo   repository.UserRepo
	convRepo   repository.ConversationRepo
	sysBoxRepo mongo.SysBoxRepo
	pushSender push.Sender
}

func NewNotifyService(
	userRepo repository.UserRepo,
	convRepo repository.ConversationRepo,
	sysBoxRepo mongo.SysBoxRepo,
	pushSender push.Sender,
) NotifyService {
	return &NotifyServiceImpl{
		userRepo:   userRepo,
		convRepo:   convRepo,
		sysBoxRepo: sysBoxRepo,
		pushSender: pushSender,
	}
}

func (s *NotifyServiceImpl) NotifyFollowed(ctx context.Context, followerID uint64, followingID uint64) error {
	follower, err := s.userRepo.GetUserById(ctx, followerID)
	if err != nil {
		return err
	}
	receiver, err := s.userRepo.GetUserById(ctx, followingID)
	if err != nil {
		return err
	}
	if receiver == nil {
		return nil
	}

	followerName := "有人"
	if follower != nil {
		followerName = follower.Nickname
	}
	content := fmt.Sprintf("%s 关注了你", followerName)

	err = s.sysBoxRepo.CreateNotification(ctx, &mongo.SysBoxModel{
		ReceiverID: followingID,
		SenderID:   followerID,
		Type:       mongo.SysBoxTypeFollowed,
		Content:    content,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	s.maybePush(ctx, receiver, push.Notification{
		Title: "新粉丝",
		Body:  content,
		Data: map[string]string{
			"type":        consts.PushTypeFollow,
			"follower_id": strconv.FormatUint(followerID, 10),
		},
	})
	return nil
}

// NotifyNewMessage 会话序号发生增长后，给发送者之外的成员推一条
// 带预览的消息通知。预览取会话行上刚刷新的 last_msg_content
func (s *NotifyServiceImpl) NotifyNewMessage(ctx context.Context, conversationID uint64) error {
	conv, err := s.convRepo.GetConversationById(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		// 会话已随注销删除，事件作废
		return nil
	}

	memberIDs, err := s.convRepo.GetMemberIDs(ctx, conversationID)
	if err != nil {
		return err
	}

	sender, err := s.userRepo.GetUserById(ctx, conv.LastSenderID)
	if err != nil {
		return err
	}
	senderName := "新消息"
	if sender != nil {
		senderName = sender.Nickname
	}

	for _, memberID := range memberIDs {
		if memberID == conv.LastSenderID {
			continue
		}
		receiver, err := s.userRepo.GetUserById(ctx, memberID)
		if err != nil {
			return err
		}
		if receiver == nil {
			continue
		}
		s.maybePush(ctx, receiver, push.Notification{
			Title: senderName,
			Body:  conv.LastMsgContent,
			Data: map[string]string{
				"type":            consts.PushTypeMessage,
				"conversation_id": strconv.FormatUint(conversationID, 10),
				"sender_id":       strconv.FormatUint(conv.LastSenderID, 10),
			},
		})
	}
	return nil
}

// maybePush 尊重用户的通知开关，没有令牌的设备直接跳过
func (s *NotifyServiceImpl) maybePush(ctx context.Context, receiver *model.User, notification push.Notification) {
	if !receiver.NotificationsEnabled {
		return
	}
	if receiver.PushToken == nil || *receiver.PushToken == "" {
		return
	}
	if err := s.pushSender.SendToDevice(ctx, *receiver.PushToken, notification); err != nil {
		log.WarnContext(ctx, "push notification failed", "user_id", receiver.ID, "err", err)
	}
}
