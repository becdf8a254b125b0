package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Mediamoney08/mediamoney-gateway/middleware"
	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/services"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
)

// adminCommand is one entry in the admin gateway's routing table. Dispatch
// is by the (endpoint, action, method) triple carried in query parameters,
// not by path segments; the permission claim checked is exactly the
// (endpoint, action) pair.
type adminCommand struct {
	method string
	handle func(ctx context.Context, r *http.Request) (interface{}, error)
}

type AdminHandler struct {
	orders   *services.OrderService
	payments *services.PaymentService
	support  *services.SupportService
	commands map[string]map[string]adminCommand
}

// CreateAdminHandler builds the command table and verifies every
// registered (endpoint, action) against the permission catalog, so a
// command without a grantable flag fails at startup instead of silently
// 403ing forever.
func CreateAdminHandler(orders *services.OrderService, payments *services.PaymentService, support *services.SupportService) (*AdminHandler, error) {
	h := &AdminHandler{
		orders:   orders,
		payments: payments,
		support:  support,
	}
	h.registerCommands()

	for endpoint, actions := range h.commands {
		for action := range actions {
			if !models.KnownPermission(endpoint, action) {
				return nil, fmt.Errorf("admin command %s.%s has no permission flag in the catalog", endpoint, action)
			}
		}
	}

	return h, nil
}

func (h *AdminHandler) registerCommands() {
	h.commands = map[string]map[string]adminCommand{
		"orders": {
			"get_list": {method: http.MethodGet, handle: h.listOrders},
			"get":      {method: http.MethodGet, handle: h.getOrder},
			"cancel":   {method: http.MethodPost, handle: h.cancelOrder},
			"complete": {method: http.MethodPost, handle: h.completeOrder},
		},
		"payments": {
			"get_list": {method: http.MethodGet, handle: h.listPayments},
			"approve":  {method: http.MethodPost, handle: h.approvePayment},
			"reject":   {method: http.MethodPost, handle: h.rejectPayment},
		},
		"users": {
			"get_list": {method: http.MethodGet, handle: h.listUsers},
			"get":      {method: http.MethodGet, handle: h.getUser},
		},
		"tickets": {
			"get_list": {method: http.MethodGet, handle: h.listTickets},
			"get":      {method: http.MethodGet, handle: h.getTicket},
			"close":    {method: http.MethodPost, handle: h.closeTicket},
		},
	}
}

func (h *AdminHandler) Handle(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	action := r.URL.Query().Get("action")

	actions, ok := h.commands[endpoint]
	if !ok {
		WriteAdminError(w, utils.ErrNotFound)
		return
	}
	cmd, ok := actions[action]
	if !ok {
		WriteAdminError(w, utils.ErrNotFound)
		return
	}
	if r.Method != cmd.method {
		WriteAdminError(w, utils.ErrNotFound)
		return
	}

	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteAdminError(w, utils.ErrInternal)
		return
	}
	if !key.Permissions.Allows(endpoint, action) {
		WriteAdminError(w, utils.PermissionError(endpoint, action))
		return
	}

	data, err := cmd.handle(r.Context(), r)
	if err != nil {
		WriteAdminError(w, err)
		return
	}
	WriteAdminSuccess(w, "ok", data)
}

func (h *AdminHandler) listOrders(ctx context.Context, r *http.Request) (interface{}, error) {
	limit, offset := parsePagination(r)

	var status *models.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		os := models.OrderStatus(s)
		status = &os
	}

	return h.orders.ListOrders(ctx, status, limit, offset)
}

func (h *AdminHandler) getOrder(ctx context.Context, r *http.Request) (interface{}, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return nil, utils.ValidationError("id is required")
	}
	return h.orders.GetOrder(ctx, id)
}

type orderActionRequest struct {
	OrderID string `json:"order_id"`
}

func (h *AdminHandler) cancelOrder(ctx context.Context, r *http.Request) (interface{}, error) {
	var req orderActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		return nil, utils.ValidationError("order_id is required")
	}
	return h.orders.CancelOrder(ctx, req.OrderID)
}

func (h *AdminHandler) completeOrder(ctx context.Context, r *http.Request) (interface{}, error) {
	var req orderActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		return nil, utils.ValidationError("order_id is required")
	}
	return h.orders.CompleteOrder(ctx, req.OrderID)
}

func (h *AdminHandler) listPayments(ctx context.Context, r *http.Request) (interface{}, error) {
	limit, offset := parsePagination(r)

	var status *models.PaymentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ps := models.PaymentStatus(s)
		status = &ps
	}

	return h.payments.List(ctx, status, limit, offset)
}

func (h *AdminHandler) approvePayment(ctx context.Context, r *http.Request) (interface{}, error) {
	var req models.ReviewPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentID == "" {
		return nil, utils.ValidationError("payment_id is required")
	}
	return h.payments.Approve(ctx, req.PaymentID, req.Note)
}

func (h *AdminHandler) rejectPayment(ctx context.Context, r *http.Request) (interface{}, error) {
	var req models.ReviewPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentID == "" {
		return nil, utils.ValidationError("payment_id is required")
	}
	return h.payments.Reject(ctx, req.PaymentID, req.Note)
}

func (h *AdminHandler) listUsers(ctx context.Context, r *http.Request) (interface{}, error) {
	limit, offset := parsePagination(r)
	return h.support.ListUsers(ctx, limit, offset)
}

func (h *AdminHandler) getUser(ctx context.Context, r *http.Request) (interface{}, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return nil, utils.ValidationError("id is required")
	}
	return h.support.GetUser(ctx, id)
}

func (h *AdminHandler) listTickets(ctx context.Context, r *http.Request) (interface{}, error) {
	limit, offset := parsePagination(r)

	var status *models.TicketStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ts := models.TicketStatus(s)
		status = &ts
	}

	return h.support.ListTickets(ctx, status, limit, offset)
}

func (h *AdminHandler) getTicket(ctx context.Context, r *http.Request) (interface{}, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return nil, utils.ValidationError("id is required")
	}
	return h.support.GetTicket(ctx, id)
}

type ticketActionRequest struct {
	TicketID string `json:"ticket_id"`
}

func (h *AdminHandler) closeTicket(ctx context.Context, r *http.Request) (interface{}, error) {
	var req ticketActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TicketID == "" {
		return nil, utils.ValidationError("ticket_id is required")
	}
	return h.support.CloseTicket(ctx, req.TicketID)
}
