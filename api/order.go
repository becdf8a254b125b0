package api

import (
	"encoding/json"
	"net/http"

	"github.com/Mediamoney08/mediamoney-gateway/middleware"
	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/services"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/gorilla/mux"
)

type OrderHandler struct {
	orders *services.OrderService
}

func CreateOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteCustomerError(w, utils.ErrInternal)
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteCustomerError(w, utils.ValidationError("invalid request body"))
		return
	}

	resp, err := h.orders.CreateOrder(r.Context(), key.OwnerID, &req)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusCreated, resp)
}

func (h *OrderHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteCustomerError(w, utils.ErrInternal)
		return
	}

	limit, offset := parsePagination(r)
	orders, err := h.orders.ListOrdersForUser(r.Context(), key.OwnerID, limit, offset)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, orders)
}

func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteCustomerError(w, utils.ErrInternal)
		return
	}

	order, err := h.orders.GetOrderForUser(r.Context(), mux.Vars(r)["id"], key.OwnerID)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, order)
}
