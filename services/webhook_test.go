package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/stretchr/testify/require"
)

func TestRegisterWebhookValidation(t *testing.T) {
	db := newTestDB(t)
	svc := CreateWebhookService(stores.CreateWebhookStore(db))
	ctx := context.Background()

	cases := []struct {
		name string
		req  *models.RegisterWebhookRequest
	}{
		{"missing url", &models.RegisterWebhookRequest{Events: []string{models.EventOrderCreated}}},
		{"bad scheme", &models.RegisterWebhookRequest{URL: "ftp://example.com/hook", Events: []string{models.EventOrderCreated}}},
		{"no events", &models.RegisterWebhookRequest{URL: "https://example.com/hook"}},
		{"unknown event", &models.RegisterWebhookRequest{URL: "https://example.com/hook", Events: []string{"order.exploded"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, "user-1", tc.req)
			require.ErrorIs(t, err, utils.ErrValidation)
		})
	}
}

func TestRegisterWebhookSecretShownOnce(t *testing.T) {
	db := newTestDB(t)
	svc := CreateWebhookService(stores.CreateWebhookStore(db))
	ctx := context.Background()

	resp, err := svc.Register(ctx, "user-1", &models.RegisterWebhookRequest{
		URL:    "https://example.com/hook",
		Events: []string{models.EventOrderCreated, models.EventOrderCompleted},
	})
	require.NoError(t, err)
	require.Len(t, resp.Secret, 64)

	// Listing the subscription never exposes the secret again.
	listed, err := svc.ListForOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	data, err := json.Marshal(listed[0])
	require.NoError(t, err)
	require.NotContains(t, string(data), resp.Secret)
}

func TestSignIsDeterministic(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	sig := Sign(payload, "secret-a")
	require.Equal(t, sig, Sign(payload, "secret-a"))
	require.NotEqual(t, sig, Sign(payload, "secret-b"))
	require.Len(t, sig, 64)
}

func TestDispatchDeliversSignedEvent(t *testing.T) {
	db := newTestDB(t)
	svc := CreateWebhookService(stores.CreateWebhookStore(db))
	ctx := context.Background()

	type received struct {
		body      []byte
		signature string
	}
	got := make(chan received, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{body: body, signature: r.Header.Get("X-Webhook-Signature")}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := svc.Register(ctx, "user-1", &models.RegisterWebhookRequest{
		URL:    server.URL,
		Events: []string{models.EventOrderCreated},
	})
	require.NoError(t, err)

	svc.Dispatch("user-1", models.EventOrderCreated, models.JSON{"order_id": "order-1"})

	select {
	case r := <-got:
		require.Equal(t, Sign(r.body, resp.Secret), r.signature)

		var event models.WebhookEvent
		require.NoError(t, json.Unmarshal(r.body, &event))
		require.Equal(t, models.EventOrderCreated, event.Type)
		require.Equal(t, "order-1", event.Data["order_id"])
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestDispatchFiltersBySubscription(t *testing.T) {
	db := newTestDB(t)
	svc := CreateWebhookService(stores.CreateWebhookStore(db))
	ctx := context.Background()

	hits := make(chan string, 4)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event models.WebhookEvent
		_ = json.NewDecoder(r.Body).Decode(&event)
		hits <- event.Type
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := svc.Register(ctx, "user-1", &models.RegisterWebhookRequest{
		URL:    server.URL,
		Events: []string{models.EventOrderCancelled},
	})
	require.NoError(t, err)

	svc.Dispatch("user-1", models.EventOrderCreated, models.JSON{"order_id": "order-1"})
	svc.Dispatch("user-1", models.EventOrderCancelled, models.JSON{"order_id": "order-1"})

	select {
	case eventType := <-hits:
		require.Equal(t, models.EventOrderCancelled, eventType)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not delivered")
	}

	select {
	case eventType := <-hits:
		t.Fatalf("unexpected delivery for %s", eventType)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDispatchScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := CreateWebhookService(stores.CreateWebhookStore(db))
	ctx := context.Background()

	deliveries := make(chan string, 4)

	newReceiver := func(owner string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deliveries <- owner
			w.WriteHeader(http.StatusOK)
		}))
	}

	ownServer := newReceiver("user-1")
	defer ownServer.Close()
	otherServer := newReceiver("user-2")
	defer otherServer.Close()

	_, err := svc.Register(ctx, "user-1", &models.RegisterWebhookRequest{
		URL:    ownServer.URL,
		Events: []string{models.EventOrderCreated},
	})
	require.NoError(t, err)

	// Another user subscribed to the same event must never see user-1's
	// order data.
	_, err = svc.Register(ctx, "user-2", &models.RegisterWebhookRequest{
		URL:    otherServer.URL,
		Events: []string{models.EventOrderCreated},
	})
	require.NoError(t, err)

	svc.Dispatch("user-1", models.EventOrderCreated, models.JSON{
		"order_id":     "order-1",
		"user_id":      "user-1",
		"total_amount": 500,
	})

	select {
	case owner := <-deliveries:
		require.Equal(t, "user-1", owner)
	case <-time.After(5 * time.Second):
		t.Fatal("owner's webhook was not delivered")
	}

	select {
	case owner := <-deliveries:
		t.Fatalf("event leaked to %s's endpoint", owner)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDispatchRetriesAndRecordsFailure(t *testing.T) {
	db := newTestDB(t)
	store := stores.CreateWebhookStore(db)
	svc := CreateWebhookService(store)
	ctx := context.Background()

	attempts := make(chan struct{}, 8)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts <- struct{}{}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resp, err := svc.Register(ctx, "user-1", &models.RegisterWebhookRequest{
		URL:    server.URL,
		Events: []string{"*"},
	})
	require.NoError(t, err)

	svc.Dispatch("user-1", models.EventOrderCreated, models.JSON{"order_id": "order-1"})

	// First attempt fails, second fires after backoff.
	for i := 0; i < 2; i++ {
		select {
		case <-attempts:
		case <-time.After(10 * time.Second):
			t.Fatal("expected a retry attempt")
		}
	}

	// Failure count moves; the subscription stays active.
	require.Eventually(t, func() bool {
		webhook, err := store.GetByID(ctx, resp.ID)
		if err != nil {
			return false
		}
		return webhook.FailureCount > 0 && webhook.IsActive
	}, 3*time.Minute, 500*time.Millisecond)
}
