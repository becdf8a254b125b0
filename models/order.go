package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

type Order struct {
	ID        string `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null;index"`
	ProductID string `json:"product_id" gorm:"not null;index"`
	Quantity  int    `json:"quantity" gorm:"not null"`

	// UnitPrice and TotalAmount are fixed at creation and never recomputed
	// from the current product price.
	UnitPrice   int64 `json:"unit_price" gorm:"not null"`
	TotalAmount int64 `json:"total_amount" gorm:"not null"`

	Status       OrderStatus `json:"status" gorm:"not null;default:'pending';index"`
	PlayerID     string      `json:"player_id,omitempty"`
	CustomFields JSON        `json:"custom_fields,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

type CreateOrderRequest struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	PlayerID     string `json:"player_id,omitempty"`
	CustomFields JSON   `json:"custom_fields,omitempty"`
}

type CreateOrderResponse struct {
	OrderID     string      `json:"order_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
}
