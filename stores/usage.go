package stores

import (
	"context"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type UsageStore struct {
	BaseStore
}

func CreateUsageStore(db *gorm.DB) *UsageStore {
	return &UsageStore{BaseStore: BaseStore{db: db}}
}

func (s *UsageStore) Append(ctx context.Context, entry *models.UsageLog) error {
	return s.GetDB(ctx).Create(entry).Error
}

func (s *UsageStore) ListByKey(ctx context.Context, apiKeyID string, limit, offset int) ([]*models.UsageLog, error) {
	var entries []*models.UsageLog
	query := s.GetDB(ctx).Where("api_key_id = ?", apiKeyID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
