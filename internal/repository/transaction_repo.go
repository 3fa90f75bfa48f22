package repository

import (
	"Murmur/internal/model"
	"context"

	"gorm.io/gorm"
)

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	GetTransactionsByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*model.Transaction, error)
}

type TransactionRepoImpl struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return &TransactionRepoImpl{db: db}
}

func (s *TransactionRepoImpl) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	return s.db.WithContext(ctx).Create(transaction).Error
}

func (s *TransactionRepoImpl) GetTransactionsByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*model.Transaction, error) {
	transactions := make([]*model.Transaction, 0, limit)
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	result := query.Find(&transactions)
	if result.Error != nil {
		return nil, result.Error
	}
	return transactions, nil
}
