package stores

import (
	"context"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type ProfileStore struct {
	BaseStore
}

func CreateProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{BaseStore: BaseStore{db: db}}
}

func (s *ProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	return s.GetDB(ctx).Create(profile).Error
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.GetDB(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileStore) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	query := s.GetDB(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

type TicketStore struct {
	BaseStore
}

func CreateTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{BaseStore: BaseStore{db: db}}
}

func (s *TicketStore) Create(ctx context.Context, ticket *models.Ticket) error {
	return s.GetDB(ctx).Create(ticket).Error
}

func (s *TicketStore) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.GetDB(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) List(ctx context.Context, status *models.TicketStatus, limit, offset int) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
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
	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// Close flips an open ticket to closed; already-closed tickets are left
// untouched.
func (s *TicketStore) Close(ctx context.Context, id string) (bool, error) {
	now := time.Now()
	result := s.GetDB(ctx).Model(&models.Ticket{}).
		Where("id = ? AND status = ?", id, models.TicketStatusOpen).
		Updates(map[string]interface{}{
			"status":    models.TicketStatusClosed,
			"closed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
