package models

import (
	"time"
)

// Wallet holds a user's spendable balance in minor currency units.
// Balance is never negative; debits happen only inside the guarded
// order transaction, credits only through payment review.
type Wallet struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}
