package stores

import (
	"context"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type APIKeyStore struct {
	BaseStore
}

func CreateAPIKeyStore(db *gorm.DB) *APIKeyStore {
	return &APIKeyStore{BaseStore: BaseStore{db: db}}
}

func (s *APIKeyStore) Create(ctx context.Context, key *models.APIKey) error {
	return s.GetDB(ctx).Create(key).Error
}

func (s *APIKeyStore) GetByID(ctx context.Context, id string) (*models.APIKey, error) {
	var key models.APIKey
	if err := s.GetDB(ctx).First(&key, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// GetByToken is the per-request lookup on the hot path. The token column
// carries a unique index; the match is exact.
func (s *APIKeyStore) GetByToken(ctx context.Context, token string) (*models.APIKey, error) {
	var key models.APIKey
	if err := s.GetDB(ctx).First(&key, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *APIKeyStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.APIKey, error) {
	var keys []*models.APIKey
	if err := s.GetDB(ctx).Where("owner_id = ?", ownerID).Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// TouchLastUsed updates the last-used bookkeeping. Callers run it
// asynchronously; a failure here never fails the request.
func (s *APIKeyStore) TouchLastUsed(ctx context.Context, id string) error {
	now := time.Now()
	return s.GetDB(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", now).Error
}

func (s *APIKeyStore) UpdateStatus(ctx context.Context, id string, status models.KeyStatus) error {
	return s.GetDB(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("status", status).Error
}
