package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Payment is a wallet top-up awaiting review. Approving one credits the
// user's wallet inside the same transaction that flips the status.
type Payment struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	UserID     string        `json:"user_id" gorm:"not null;index"`
	Amount     int64         `json:"amount" gorm:"not null"`
	Method     string        `json:"method"`
	ProofURL   string        `json:"proof_url"`
	Status     PaymentStatus `json:"status" gorm:"not null;default:'pending';index"`
	ReviewNote string        `json:"review_note,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

type ReviewPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Note      string `json:"note,omitempty"`
}
