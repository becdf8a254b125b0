package stores

import (
	"context"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type WebhookStore struct {
	BaseStore
}

func CreateWebhookStore(db *gorm.DB) *WebhookStore {
	return &WebhookStore{BaseStore: BaseStore{db: db}}
}

func (s *WebhookStore) Create(ctx context.Context, webhook *models.Webhook) error {
	return s.GetDB(ctx).Create(webhook).Error
}

func (s *WebhookStore) GetByID(ctx context.Context, id string) (*models.Webhook, error) {
	var webhook models.Webhook
	if err := s.GetDB(ctx).First(&webhook, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &webhook, nil
}

func (s *WebhookStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Webhook, error) {
	var webhooks []*models.Webhook
	if err := s.GetDB(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&webhooks).Error; err != nil {
		return nil, err
	}
	return webhooks, nil
}

// ListActiveByOwner returns the active subscriptions dispatch may deliver
// to for one owner. Delivery is owner-scoped like every other read path;
// there is deliberately no cross-owner listing on the dispatch path.
func (s *WebhookStore) ListActiveByOwner(ctx context.Context, ownerID string) ([]*models.Webhook, error) {
	var webhooks []*models.Webhook
	if err := s.GetDB(ctx).Where("owner_id = ? AND is_active = ?", ownerID, true).Find(&webhooks).Error; err != nil {
		return nil, err
	}
	return webhooks, nil
}

func (s *WebhookStore) MarkTriggered(ctx context.Context, id string, delivered bool) error {
	now := time.Now()
	updates := map[string]interface{}{
		"last_triggered_at": now,
	}
	if delivered {
		updates["failure_count"] = 0
	} else {
		updates["failure_count"] = gorm.Expr("failure_count + 1")
	}
	return s.GetDB(ctx).Model(&models.Webhook{}).Where("id = ?", id).Updates(updates).Error
}

func (s *WebhookStore) Deactivate(ctx context.Context, id string) error {
	return s.GetDB(ctx).Model(&models.Webhook{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
