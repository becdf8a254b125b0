package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/google/uuid"
)

const (
	deliveryTimeout   = 10 * time.Second
	deliveryAttempts  = 5
	deliveryBaseDelay = 1 * time.Second
	deliveryMaxDelay  = 2 * time.Minute
)

type WebhookService struct {
	store  *stores.WebhookStore
	client *http.Client
	log    *utils.Logger
}

func CreateWebhookService(store *stores.WebhookStore) *WebhookService {
	return &WebhookService{
		store:  store,
		client: &http.Client{Timeout: deliveryTimeout},
		log:    utils.NewLogger("webhooks"),
	}
}

// Register persists a subscription with a server-generated 256-bit secret.
// The secret appears in the returned response and nowhere else; reads of
// the subscription never expose it again.
func (s *WebhookService) Register(ctx context.Context, ownerID string, req *models.RegisterWebhookRequest) (*models.RegisterWebhookResponse, error) {
	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, utils.ValidationError("url must be a valid http(s) URL")
	}
	if err := models.ValidateEventNames(req.Events); err != nil {
		return nil, utils.ValidationError(err.Error())
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	webhook := &models.Webhook{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		URL:      req.URL,
		Events:   models.EventNames(req.Events),
		Secret:   secret,
		IsActive: true,
	}

	if err := s.store.Create(ctx, webhook); err != nil {
		return nil, err
	}

	return &models.RegisterWebhookResponse{
		ID:     webhook.ID,
		URL:    webhook.URL,
		Events: req.Events,
		Secret: secret,
	}, nil
}

func (s *WebhookService) ListForOwner(ctx context.Context, ownerID string) ([]*models.Webhook, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Dispatch fans a lifecycle event out to the owning user's active
// subscriptions whose filter matches. Only subscriptions registered by
// ownerID are considered; one customer's events never reach another
// customer's endpoint. Delivery runs in the background; the triggering
// request never waits on or observes delivery failures.
func (s *WebhookService) Dispatch(ownerID, eventType string, data models.JSON) {
	event := models.WebhookEvent{
		ID:        "evt_" + uuid.NewString(),
		Type:      eventType,
		Data:      data,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error(context.Background(), "failed to marshal webhook event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	webhooks, err := s.store.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		s.log.Error(ctx, "failed to load webhook subscriptions", map[string]interface{}{
			"owner_id":   ownerID,
			"event_type": eventType,
			"error":      err.Error(),
		})
		return
	}

	for _, webhook := range webhooks {
		if !webhook.SubscribedTo(eventType) {
			continue
		}
		go s.deliver(webhook, event.Type, payload)
	}
}

func (s *WebhookService) deliver(webhook *models.Webhook, eventType string, payload []byte) {
	// Total retry budget: 5 attempts with exponential backoff, each with a
	// bounded per-attempt timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	signature := Sign(payload, webhook.Secret)

	retryConfig := &utils.RetryConfig{
		MaxAttempts: deliveryAttempts,
		BaseDelay:   deliveryBaseDelay,
		MaxDelay:    deliveryMaxDelay,
		Multiplier:  2.0,
		Jitter:      true,
	}

	err := utils.Retry(ctx, retryConfig, func() error {
		return s.post(ctx, webhook.URL, payload, signature)
	})

	markCtx, markCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer markCancel()

	if markErr := s.store.MarkTriggered(markCtx, webhook.ID, err == nil); markErr != nil {
		s.log.Warn(markCtx, "failed to record webhook trigger", map[string]interface{}{
			"webhook_id": webhook.ID,
			"error":      markErr.Error(),
		})
	}

	if err != nil {
		// The subscription stays active; repeated failures surface through
		// failure_count for operators to act on.
		s.log.Error(markCtx, "webhook delivery failed", map[string]interface{}{
			"webhook_id": webhook.ID,
			"event_type": eventType,
			"url":        webhook.URL,
			"error":      err.Error(),
		})
	}
}

func (s *WebhookService) post(ctx context.Context, targetURL string, payload []byte, signature string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Timestamp", fmt.Sprintf("%d", time.Now().Unix()))

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the HMAC-SHA256 hex signature a receiver should verify
// against the X-Webhook-Signature header.
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
