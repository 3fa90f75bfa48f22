package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/mongo"
	"Murmur/internal/pkg/push"
	"Murmur/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"Murmur/internal/pkg/consts"
)

const rewardDescription = "粉丝里程碑奖励"

type RewardService interface {
	MaybeIssueReward(ctx context.Context, userID uint64) (bool, error)
	GetRewardRule(ctx context.Context) (*dto.RewardRuleDTO, error)
	UpdateRewardRule(ctx context.Context, dto *dto.RewardRuleDTO) error
}

type RewardServiceImpl struct {
	userRepo       repository.UserRepo
	rewardRuleRepo repository.RewardRuleRepo
	sysBoxRepo     mongo.SysBoxRepo
	pushSender     push.Sender
}

func NewRewardService(
	userRepo repository.UserRepo,
	rewardRuleRepo repository.RewardRuleRepo,
	sysBoxRepo mongo.SysBoxRepo,
	pushSender push.Sender,
) RewardService {
	return &RewardServiceImpl{
		userRepo:       userRepo,
		rewardRuleRepo: rewardRuleRepo,
		sysBoxRepo:     sysBoxRepo,
		pushSender:     pushSender,
	}
}

// MaybeIssueReward 粉丝数达到阈值且未领取时发放一次性奖励。
// 判定本身只是预筛，真正的一次性保证在仓储层的行锁事务里，
// 并发投递、重复投递最多只有一次能把 reward_claimed 翻成 true
func (s *RewardServiceImpl) MaybeIssueReward(ctx context.Context, userID uint64) (bool, error) {
	rule, err := s.rewardRuleRepo.GetRule(ctx)
	if err != nil {
		return false, err
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		// 用户可能已注销，事件作废
		return false, nil
	}
	if user.RewardClaimed || user.FollowerCount < rule.FollowerThreshold {
		return false, nil
	}

	granted, err := s.userRepo.GrantMilestoneReward(ctx, userID, rule.RewardAmount, rewardDescription)
	if err != nil {
		return false, err
	}
	if !granted {
		return false, nil
	}

	log.InfoContext(ctx, "Milestone reward granted",
		"user_id", userID,
		"threshold", rule.FollowerThreshold,
		"amount", rule.RewardAmount)

	// 通知只是锦上添花，失败不回滚奖励
	s.notifyReward(ctx, user, rule)
	return true, nil
}

func (s *RewardServiceImpl) notifyReward(ctx context.Context, user *model.User, rule *model.RewardRule) {
	content := fmt.Sprintf("恭喜！你的粉丝数突破 %d，奖励 %d 已到账", rule.FollowerThreshold, rule.RewardAmount)

	err := s.sysBoxRepo.CreateNotification(ctx, &mongo.SysBoxModel{
		ReceiverID: user.ID,
		SenderID:   0,
		Type:       mongo.SysBoxTypeReward,
		Content:    content,
		Payload: map[string]any{
			"threshold": rule.FollowerThreshold,
			"amount":    rule.RewardAmount,
		},
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.WarnContext(ctx, "write reward notification failed", "user_id", user.ID, "err", err)
	}

	if !user.NotificationsEnabled || user.PushToken == nil || *user.PushToken == "" {
		return
	}
	err = s.pushSender.SendToDevice(ctx, *user.PushToken, push.Notification{
		Title: "里程碑达成",
		Body:  content,
		Data: map[string]string{
			"type":   consts.PushTypeReward,
			"amount": strconv.FormatInt(rule.RewardAmount, 10),
		},
	})
	if err != nil {
		log.WarnContext(ctx, "push reward notification failed", "user_id", user.ID, "err", err)
	}
}

func (s *RewardServiceImpl) GetRewardRule(ctx context.Context) (*dto.RewardRuleDTO, error) {
	rule, err := s.rewardRuleRepo.GetRule(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RewardRuleDTO{
		FollowerThreshold: rule.FollowerThreshold,
		RewardAmount:      rule.RewardAmount,
	}, nil
}

// UpdateRewardRule 管理端调整规则。只影响之后的判定，
// 已领取用户不回收，已达标未触发的用户等下一次粉丝数变化
func (s *RewardServiceImpl) UpdateRewardRule(ctx context.Context, ruleDTO *dto.RewardRuleDTO) error {
	if ruleDTO.FollowerThreshold <= 0 || ruleDTO.RewardAmount <= 0 {
		return ErrRewardRuleInvalid
	}
	return s.rewardRuleRepo.UpsertRule(ctx, ruleDTO.FollowerThreshold, ruleDTO.RewardAmount)
}
