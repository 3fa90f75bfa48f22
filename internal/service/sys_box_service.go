package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/mongo"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type SysBoxService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
}

func NewSysBoxService(sysBox mongo.SysBoxRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
	}
}

// GetNotificationList 获取通知列表
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.sysBoxRepo.GetNotificationList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.SysBoxDTO{}
		_ = copier.Copy(d, m)
		d.ID = m.ID.Hex()
		d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
		res = append(res, d)
	}

	return res, nil
}

// GetUnreadCount 获取未读数
func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	err := s.sysBoxRepo.MarkAsRead(ctx, userID, msgID)
	if err != nil {
		return ErrSysBoxNotFound
	}
	return nil
}

// MarkAllRead 全部已读
func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}
