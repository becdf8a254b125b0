package models

import "testing"

func TestValidateEventNames(t *testing.T) {
	if err := ValidateEventNames([]string{EventOrderCreated, EventPaymentApproved}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateEventNames([]string{EventWildcard}); err != nil {
		t.Errorf("unexpected error for wildcard: %v", err)
	}
	if err := ValidateEventNames(nil); err == nil {
		t.Error("expected error for empty event list")
	}
	if err := ValidateEventNames([]string{"order.shipped"}); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestWebhookSubscribedTo(t *testing.T) {
	webhook := &Webhook{Events: EventNames([]string{EventOrderCreated, EventOrderCancelled})}

	if !webhook.SubscribedTo(EventOrderCreated) {
		t.Error("expected subscription to order.created")
	}
	if webhook.SubscribedTo(EventOrderCompleted) {
		t.Error("did not expect subscription to order.completed")
	}

	wildcard := &Webhook{Events: EventNames([]string{EventWildcard})}
	if !wildcard.SubscribedTo(EventPaymentRejected) {
		t.Error("expected wildcard to match every event")
	}

	empty := &Webhook{Events: JSON{}}
	if empty.SubscribedTo(EventOrderCreated) {
		t.Error("expected malformed events column to match nothing")
	}
}
