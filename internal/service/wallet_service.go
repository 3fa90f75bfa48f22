package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/repository"
	"context"
)

const TransactionPageSize = 20

type WalletService interface {
	GetWallet(ctx context.Context, userID uint64) (*dto.WalletDTO, error)
	GetTransactions(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*dto.TransactionDTO, error)
}

type WalletServiceImpl struct {
	userRepo        repository.UserRepo
	transactionRepo repository.TransactionRepo
}

func NewWalletService(userRepo repository.UserRepo, transactionRepo repository.TransactionRepo) WalletService {
	return &WalletServiceImpl{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *WalletServiceImpl) GetWallet(ctx context.Context, userID uint64) (*dto.WalletDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &dto.WalletDTO{
		Balance:       user.WalletBalance,
		RewardClaimed: user.RewardClaimed,
	}, nil
}

func (s *WalletServiceImpl) GetTransactions(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*dto.TransactionDTO, error) {
	if limit <= 0 || limit > TransactionPageSize {
		limit = TransactionPageSize
	}
	transactions, err := s.transactionRepo.GetTransactionsByUser(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		res = append(res, &dto.TransactionDTO{
			ID:          t.ID,
			Type:        t.Type,
			Amount:      t.Amount,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}
	return res, nil
}
