package model

import "time"

const (
	TransactionTypeReward = "reward"
	TransactionTypePayout = "payout"
)

// Transaction 钱包流水，只追加不修改
type Transaction struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"not null;index:idx_tx_user" json:"userId"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}
