package repository

import (
	"Murmur/internal/model"
	"context"

	"gorm.io/gorm"
)

// PurgeResult 记录事务内删除的范围，供事务外的异构存储清理使用
type PurgeResult struct {
	Found bool
	// DeletedConversationIDs 本次连会话行一起删掉的会话，消息体要跟着清
	DeletedConversationIDs []uint64
	// CounterpartIDs 与被注销用户有关注边的对端用户，计数已在事务内重算
	CounterpartIDs []uint64
}

type PurgeRepo interface {
	PurgeUserData(ctx context.Context, userID uint64) (*PurgeResult, error)
}

type PurgeRepoImpl struct {
	db *gorm.DB
}

func NewPurgeRepo(db *gorm.DB) PurgeRepo {
	return &PurgeRepoImpl{db: db}
}

// PurgeUserData 在单个事务里删除用户及其全部关系型数据：
// 用户行、帖子与帖下评论、用户发出的评论、会话成员关系、关注边、钱包流水。
// 事务要么整体生效要么整体回滚，重复调用时首条 DELETE 影响行数为 0，直接短路返回
func (s *PurgeRepoImpl) PurgeUserData(ctx context.Context, userID uint64) (*PurgeResult, error) {
	purgeResult := &PurgeResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.User{}, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		purgeResult.Found = true

		if err := purgePosts(tx, userID); err != nil {
			return err
		}

		deletedConversationIDs, err := purgeConversations(tx, userID)
		if err != nil {
			return err
		}
		purgeResult.DeletedConversationIDs = deletedConversationIDs

		counterpartIDs, err := purgeFollowEdges(tx, userID)
		if err != nil {
			return err
		}
		purgeResult.CounterpartIDs = counterpartIDs

		return tx.Where("user_id = ?", userID).
			Delete(&model.Transaction{}).Error
	})
	if err != nil {
		return nil, err
	}

	return purgeResult, nil
}

func purgePosts(tx *gorm.DB, userID uint64) error {
	postIDs := make([]uint64, 0)
	if err := tx.Model(&model.Post{}).
		Where("user_id = ?", userID).
		Pluck("id", &postIDs).Error; err != nil {
		return err
	}

	if len(postIDs) > 0 {
		if err := tx.Where("post_id IN ?", postIDs).
			Delete(&model.PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).
			Delete(&model.Post{}).Error; err != nil {
			return err
		}
	}

	// 用户在别人帖子下的评论
	return tx.Where("user_id = ?", userID).
		Delete(&model.PostComment{}).Error
}

func purgeConversations(tx *gorm.DB, userID uint64) ([]uint64, error) {
	conversationIDs := make([]uint64, 0)
	if err := tx.Model(&model.ConversationMember{}).
		Where("user_id = ?", userID).
		Pluck("conversation_id", &conversationIDs).Error; err != nil {
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).
		Delete(&model.ConversationMember{}).Error; err != nil {
		return nil, err
	}

	// 对端已注销的会话只剩自己，连会话行一起删；
	// 对端还在的会话保留，只摘掉本人的成员关系
	deletedIDs := make([]uint64, 0, len(conversationIDs))
	for _, conversationID := range conversationIDs {
		var remaining int64
		if err := tx.Model(&model.ConversationMember{}).
			Where("conversation_id = ?", conversationID).
			Count(&remaining).Error; err != nil {
			return nil, err
		}
		if remaining > 0 {
			continue
		}
		if err := tx.Delete(&model.Conversation{}, conversationID).Error; err != nil {
			return nil, err
		}
		deletedIDs = append(deletedIDs, conversationID)
	}

	return deletedIDs, nil
}

// purgeFollowEdges 删除双向关注边，并在同一事务内重算对端用户的计数，
// 保证边的消失与计数的修正原子生效
func purgeFollowEdges(tx *gorm.DB, userID uint64) ([]uint64, error) {
	counterpartSet := make(map[uint64]struct{})

	followerIDs := make([]uint64, 0)
	if err := tx.Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &followerIDs).Error; err != nil {
		return nil, err
	}
	followingIDs := make([]uint64, 0)
	if err := tx.Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &followingIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range followerIDs {
		counterpartSet[id] = struct{}{}
	}
	for _, id := range followingIDs {
		counterpartSet[id] = struct{}{}
	}

	if err := tx.
		Where("follower_id = ? OR following_id = ?", userID, userID).
		Delete(&model.UserFollow{}).Error; err != nil {
		return nil, err
	}

	counterpartIDs := make([]uint64, 0, len(counterpartSet))
	for counterpartID := range counterpartSet {
		var followerCount, followingCount int64
		if err := tx.Model(&model.UserFollow{}).
			Where("following_id = ?", counterpartID).
			Count(&followerCount).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&model.UserFollow{}).
			Where("follower_id = ?", counterpartID).
			Count(&followingCount).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&model.User{}).
			Where("id = ?", counterpartID).
			Updates(map[string]interface{}{
				"follower_count":  followerCount,
				"following_count": followingCount,
			}).Error; err != nil {
			return nil, err
		}
		counterpartIDs = append(counterpartIDs, counterpartID)
	}

	return counterpartIDs, nil
}
