package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepo interface {
	GetConversationById(ctx context.Context, id uint64) (*model.Conversation, error)
	GetOrCreateConversation(ctx context.Context, userA uint64, userB uint64) (*model.Conversation, error)
	IncrMaxSeq(ctx context.Context, conversationID uint64, senderID uint64, preview string) (uint64, error)
	IsMember(ctx context.Context, conversationID uint64, userID uint64) (bool, error)
	GetMemberIDs(ctx context.Context, conversationID uint64) ([]uint64, error)
	GetUserConversationList(ctx context.Context, userID uint64) ([]*model.ConversationMember, error)
	UpdateReadSeq(ctx context.Context, conversationID uint64, userID uint64, seq uint64) error
}

type ConversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &ConversationRepoImpl{db: db}
}

// PeerKey 把两个成员 ID 排序后拼接，保证同一对用户只有一个会话
func PeerKey(userA uint64, userB uint64) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}

func (s *ConversationRepoImpl) GetConversationById(ctx context.Context, id uint64) (*model.Conversation, error) {
	conversation := &model.Conversation{}
	result := s.db.WithContext(ctx).First(conversation, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return conversation, nil
}

func (s *ConversationRepoImpl) GetOrCreateConversation(ctx context.Context, userA uint64, userB uint64) (*model.Conversation, error) {
	peerKey := PeerKey(userA, userB)

	conversation := &model.Conversation{}
	result := s.db.WithContext(ctx).
		Where("peer_key = ?", peerKey).
		First(conversation)
	if result.Error == nil {
		return conversation, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversation = &model.Conversation{PeerKey: peerKey}
		// 并发首聊可能撞唯一键，撞了就读已有的那条
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(conversation).Error; err != nil {
			return err
		}
		if conversation.ID == 0 {
			if err := tx.Where("peer_key = ?", peerKey).
				First(conversation).Error; err != nil {
				return err
			}
			return nil
		}

		members := []*model.ConversationMember{
			{ConversationID: conversation.ID, UserID: userA, JoinedAt: time.Now()},
			{ConversationID: conversation.ID, UserID: userB, JoinedAt: time.Now()},
		}
		return tx.Create(members).Error
	})
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

// IncrMaxSeq 行锁下自增会话序号并刷新预览字段，返回分配给本条消息的序号。
// 这一次 UPDATE 正是下游消息通知消费者监听的那条变更
func (s *ConversationRepoImpl) IncrMaxSeq(ctx context.Context, conversationID uint64, senderID uint64, preview string) (uint64, error) {
	var seq uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation model.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&conversation, conversationID).Error; err != nil {
			return err
		}

		seq = conversation.MaxMsgSeq + 1
		return tx.Model(&model.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"max_msg_seq":      seq,
				"last_msg_content": preview,
				"last_sender_id":   senderID,
				"last_message_at":  time.Now(),
			}).Error
	})
	return seq, err
}

func (s *ConversationRepoImpl) IsMember(ctx context.Context, conversationID uint64, userID uint64) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count)
	return count > 0, result.Error
}

func (s *ConversationRepoImpl) GetMemberIDs(ctx context.Context, conversationID uint64) ([]uint64, error) {
	ids := make([]uint64, 0, 2)
	result := s.db.WithContext(ctx).Model(&model.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids)
	return ids, result.Error
}

func (s *ConversationRepoImpl) GetUserConversationList(ctx context.Context, userID uint64) ([]*model.ConversationMember, error) {
	members := make([]*model.ConversationMember, 0)
	result := s.db.WithContext(ctx).
		Preload("Conversation").
		Joins("JOIN conversations ON conversations.id = conversation_members.conversation_id").
		Where("conversation_members.user_id = ?", userID).
		Order("conversations.last_message_at DESC").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}

func (s *ConversationRepoImpl) UpdateReadSeq(ctx context.Context, conversationID uint64, userID uint64, seq uint64) error {
	return s.db.WithContext(ctx).Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ? AND read_msg_seq < ?", conversationID, userID, seq).
		Update("read_msg_seq", seq).Error
}
