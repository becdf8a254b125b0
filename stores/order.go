package stores

import (
	"context"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type OrderStore struct {
	BaseStore
}

func CreateOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{BaseStore: BaseStore{db: db}}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	return s.GetDB(ctx).Create(order).Error
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.GetDB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) GetByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	if err := s.GetDB(ctx).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	var orders []*models.Order
	query := s.GetDB(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) List(ctx context.Context, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	var orders []*models.Order
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
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkCancelled flips a pending order to cancelled. The status guard makes
// a cancel racing against fulfillment resolve to exactly one winner.
func (s *OrderStore) MarkCancelled(ctx context.Context, id string) (bool, error) {
	result := s.GetDB(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Update("status", models.OrderStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted flips a pending order to completed, guarded the same way.
func (s *OrderStore) MarkCompleted(ctx context.Context, id string) (bool, error) {
	now := time.Now()
	result := s.GetDB(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
