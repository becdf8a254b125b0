package models

import (
	"fmt"
	"time"
)

const (
	EventOrderCreated    = "order.created"
	EventOrderCompleted  = "order.completed"
	EventOrderCancelled  = "order.cancelled"
	EventOrderFailed     = "order.failed"
	EventPaymentApproved = "payment.approved"
	EventPaymentRejected = "payment.rejected"

	// EventWildcard subscribes to every event in the catalog.
	EventWildcard = "*"
)

var knownEvents = map[string]bool{
	EventOrderCreated:    true,
	EventOrderCompleted:  true,
	EventOrderCancelled:  true,
	EventOrderFailed:     true,
	EventPaymentApproved: true,
	EventPaymentRejected: true,
	EventWildcard:        true,
}

func ValidateEventNames(events []string) error {
	if len(events) == 0 {
		return fmt.Errorf("at least one event name is required")
	}
	for _, e := range events {
		if !knownEvents[e] {
			return fmt.Errorf("unknown event name: %s", e)
		}
	}
	return nil
}

type Webhook struct {
	ID      string `json:"id" gorm:"primaryKey"`
	OwnerID string `json:"owner_id" gorm:"not null;index"`
	URL     string `json:"url" gorm:"not null"`
	Events  JSON   `json:"events" gorm:"type:jsonb;not null"`

	// Secret signs outbound payloads. It is generated once at registration
	// and never returned again after the creation response.
	Secret string `json:"-" gorm:"not null"`

	IsActive        bool       `json:"is_active" gorm:"default:true"`
	FailureCount    int        `json:"failure_count" gorm:"default:0"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// SubscribedTo reports whether the registration covers the event.
func (w *Webhook) SubscribedTo(event string) bool {
	names, ok := w.Events["names"].([]interface{})
	if !ok {
		return false
	}
	for _, n := range names {
		s, ok := n.(string)
		if !ok {
			continue
		}
		if s == event || s == EventWildcard {
			return true
		}
	}
	return false
}

// EventNames packs a list of event names into the jsonb column shape.
func EventNames(events []string) JSON {
	names := make([]interface{}, 0, len(events))
	for _, e := range events {
		names = append(names, e)
	}
	return JSON{"names": names}
}

type RegisterWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// RegisterWebhookResponse is the only place the raw secret ever appears.
type RegisterWebhookResponse struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

// WebhookEvent is the payload POSTed to subscribers.
type WebhookEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Data      JSON      `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}
