package services

import (
	"context"
	"errors"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"gorm.io/gorm"
)

// SupportService backs the admin gateway's users and tickets endpoint
// families.
type SupportService struct {
	profiles *stores.ProfileStore
	tickets  *stores.TicketStore
	wallets  *stores.WalletStore
}

func CreateSupportService(profiles *stores.ProfileStore, tickets *stores.TicketStore, wallets *stores.WalletStore) *SupportService {
	return &SupportService{
		profiles: profiles,
		tickets:  tickets,
		wallets:  wallets,
	}
}

type UserView struct {
	*models.Profile
	Balance int64 `json:"balance"`
}

func (s *SupportService) ListUsers(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	return s.profiles.List(ctx, limit, offset)
}

func (s *SupportService) GetUser(ctx context.Context, id string) (*UserView, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	view := &UserView{Profile: profile}
	if wallet, err := s.wallets.GetByUserID(ctx, id); err == nil {
		view.Balance = wallet.Balance
	}
	return view, nil
}

func (s *SupportService) ListTickets(ctx context.Context, status *models.TicketStatus, limit, offset int) ([]*models.Ticket, error) {
	return s.tickets.List(ctx, status, limit, offset)
}

func (s *SupportService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (s *SupportService) CloseTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ok, err := s.tickets.Close(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.tickets.GetByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, utils.ErrConflict
	}
	return s.tickets.GetByID(ctx, id)
}
