package api

import (
	"encoding/json"
	"net/http"

	"github.com/Mediamoney08/mediamoney-gateway/middleware"
	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/services"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
)

type WebhookHandler struct {
	webhooks *services.WebhookService
}

func CreateWebhookHandler(webhooks *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

func (h *WebhookHandler) HandleRegisterWebhook(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteCustomerError(w, utils.ErrInternal)
		return
	}

	var req models.RegisterWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteCustomerError(w, utils.ValidationError("invalid request body"))
		return
	}

	resp, err := h.webhooks.Register(r.Context(), key.OwnerID, &req)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusCreated, resp)
}

func (h *WebhookHandler) HandleListWebhooks(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteCustomerError(w, utils.ErrInternal)
		return
	}

	webhooks, err := h.webhooks.ListForOwner(r.Context(), key.OwnerID)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, webhooks)
}
