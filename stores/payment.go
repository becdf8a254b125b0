package stores

import (
	"context"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type PaymentStore struct {
	BaseStore
}

func CreatePaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{BaseStore: BaseStore{db: db}}
}

func (s *PaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	return s.GetDB(ctx).Create(payment).Error
}

func (s *PaymentStore) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.GetDB(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentStore) List(ctx context.Context, status *models.PaymentStatus, limit, offset int) ([]*models.Payment, error) {
	var payments []*models.Payment
	query := s.GetDB(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// MarkReviewed resolves a pending payment. The status guard keeps two
// reviewers from both approving the same top-up.
func (s *PaymentStore) MarkReviewed(ctx context.Context, id string, status models.PaymentStatus, note string) (bool, error) {
	now := time.Now()
	result := s.GetDB(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"review_note": note,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
