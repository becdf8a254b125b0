package services

import (
	"context"
	"errors"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"gorm.io/gorm"
)

type PaymentService struct {
	payments *stores.PaymentStore
	wallets  *stores.WalletStore
	webhooks *WebhookService
	log      *utils.Logger
}

func CreatePaymentService(payments *stores.PaymentStore, wallets *stores.WalletStore, webhooks *WebhookService) *PaymentService {
	return &PaymentService{
		payments: payments,
		wallets:  wallets,
		webhooks: webhooks,
		log:      utils.NewLogger("payments"),
	}
}

// Approve credits the user's wallet and resolves the payment in one
// transaction. The guarded status flip keeps two reviewers from approving
// the same top-up twice.
func (s *PaymentService) Approve(ctx context.Context, paymentID, note string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	err = s.payments.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.payments.MarkReviewed(txCtx, paymentID, models.PaymentStatusApproved, note)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrConflict
		}

		if _, err := s.wallets.GetByUserID(txCtx, payment.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.wallets.Create(txCtx, &models.Wallet{
					UserID:  payment.UserID,
					Balance: payment.Amount,
				})
			}
			return err
		}
		return s.wallets.Credit(txCtx, payment.UserID, payment.Amount)
	})
	if err != nil {
		return nil, err
	}

	payment.Status = models.PaymentStatusApproved

	s.webhooks.Dispatch(payment.UserID, models.EventPaymentApproved, models.JSON{
		"payment_id": payment.ID,
		"user_id":    payment.UserID,
		"amount":     payment.Amount,
	})

	return payment, nil
}

func (s *PaymentService) Reject(ctx context.Context, paymentID, note string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	ok, err := s.payments.MarkReviewed(ctx, paymentID, models.PaymentStatusRejected, note)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrConflict
	}

	payment.Status = models.PaymentStatusRejected

	s.webhooks.Dispatch(payment.UserID, models.EventPaymentRejected, models.JSON{
		"payment_id": payment.ID,
		"user_id":    payment.UserID,
		"amount":     payment.Amount,
	})

	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, status *models.PaymentStatus, limit, offset int) ([]*models.Payment, error) {
	return s.payments.List(ctx, status, limit, offset)
}
