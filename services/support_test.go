package services

import (
	"context"
	"testing"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSupportService(t *testing.T, db *gorm.DB) *SupportService {
	t.Helper()
	return CreateSupportService(
		stores.CreateProfileStore(db),
		stores.CreateTicketStore(db),
		stores.CreateWalletStore(db),
	)
}

func TestGetUserIncludesBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newSupportService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Profile{
		ID:    "user-1",
		Email: "one@example.com",
		Name:  "User One",
	}).Error)
	seedWallet(t, db, "user-1", 750)

	view, err := svc.GetUser(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "one@example.com", view.Email)
	require.Equal(t, int64(750), view.Balance)

	_, err = svc.GetUser(ctx, "missing")
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGetUserWithoutWallet(t *testing.T) {
	db := newTestDB(t)
	svc := newSupportService(t, db)

	require.NoError(t, db.Create(&models.Profile{
		ID:    "user-1",
		Email: "one@example.com",
	}).Error)

	view, err := svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Zero(t, view.Balance)
}

func TestCloseTicket(t *testing.T) {
	db := newTestDB(t)
	svc := newSupportService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Ticket{
		ID:      "ticket-1",
		UserID:  "user-1",
		Subject: "order never arrived",
		Status:  models.TicketStatusOpen,
	}).Error)

	ticket, err := svc.CloseTicket(ctx, "ticket-1")
	require.NoError(t, err)
	require.Equal(t, models.TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)

	_, err = svc.CloseTicket(ctx, "ticket-1")
	require.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.CloseTicket(ctx, "missing")
	require.ErrorIs(t, err, utils.ErrNotFound)
}
