package stores

import (
	"context"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type WalletStore struct {
	BaseStore
}

func CreateWalletStore(db *gorm.DB) *WalletStore {
	return &WalletStore{BaseStore: BaseStore{db: db}}
}

func (s *WalletStore) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.GetDB(ctx).First(&wallet, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *WalletStore) Create(ctx context.Context, wallet *models.Wallet) error {
	return s.GetDB(ctx).Create(wallet).Error
}

// Debit subtracts amount only while the balance still covers it at write
// time. A false return means a concurrent debit drained the wallet first;
// the caller must abort its transaction.
func (s *WalletStore) Debit(ctx context.Context, userID string, amount int64) (bool, error) {
	result := s.GetDB(ctx).Model(&models.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *WalletStore) Credit(ctx context.Context, userID string, amount int64) error {
	return s.GetDB(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}
