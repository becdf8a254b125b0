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

func newPaymentService(t *testing.T, db *gorm.DB) *PaymentService {
	t.Helper()
	webhooks := CreateWebhookService(stores.CreateWebhookStore(db))
	return CreatePaymentService(
		stores.CreatePaymentStore(db),
		stores.CreateWalletStore(db),
		webhooks,
	)
}

func seedPayment(t *testing.T, db *gorm.DB, id, userID string, amount int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Payment{
		ID:     id,
		UserID: userID,
		Amount: amount,
		Method: "bank_transfer",
		Status: models.PaymentStatusPending,
	}).Error)
}

func TestApprovePaymentCreditsWallet(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db)
	ctx := context.Background()

	seedWallet(t, db, "user-1", 100)
	seedPayment(t, db, "pay-1", "user-1", 900)

	payment, err := svc.Approve(ctx, "pay-1", "receipt checked")
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusApproved, payment.Status)

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, "user_id = ?", "user-1").Error)
	require.Equal(t, int64(1000), wallet.Balance)
}

func TestApprovePaymentCreatesMissingWallet(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db)
	ctx := context.Background()

	seedPayment(t, db, "pay-1", "user-new", 500)

	_, err := svc.Approve(ctx, "pay-1", "")
	require.NoError(t, err)

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, "user_id = ?", "user-new").Error)
	require.Equal(t, int64(500), wallet.Balance)
}

func TestApprovePaymentTwiceCreditsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db)
	ctx := context.Background()

	seedWallet(t, db, "user-1", 0)
	seedPayment(t, db, "pay-1", "user-1", 250)

	_, err := svc.Approve(ctx, "pay-1", "")
	require.NoError(t, err)

	// Second review of the same payment loses the guarded status flip and
	// must not credit again.
	_, err = svc.Approve(ctx, "pay-1", "")
	require.ErrorIs(t, err, utils.ErrConflict)

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, "user_id = ?", "user-1").Error)
	require.Equal(t, int64(250), wallet.Balance)
}

func TestRejectPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db)
	ctx := context.Background()

	seedWallet(t, db, "user-1", 0)
	seedPayment(t, db, "pay-1", "user-1", 250)

	payment, err := svc.Reject(ctx, "pay-1", "proof unreadable")
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusRejected, payment.Status)

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, "user_id = ?", "user-1").Error)
	require.Zero(t, wallet.Balance)

	// A rejected payment cannot be approved afterward.
	_, err = svc.Approve(ctx, "pay-1", "")
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestReviewUnknownPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db)
	ctx := context.Background()

	_, err := svc.Approve(ctx, "missing", "")
	require.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Reject(ctx, "missing", "")
	require.ErrorIs(t, err, utils.ErrNotFound)
}
