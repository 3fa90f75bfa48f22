package dto

import "time"

type WalletDTO struct {
	Balance       int64 `json:"balance"`
	RewardClaimed bool  `json:"reward_claimed"`
}

type TransactionDTO struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
