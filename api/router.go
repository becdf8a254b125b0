package api

import (
	"net/http"

	"github.com/Mediamoney08/mediamoney-gateway/middleware"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// RouterDeps collects everything the HTTP surface needs. Both gateways
// share the authenticator, limiter and usage logger; they differ only in
// key family and envelope.
type RouterDeps struct {
	Customer *middleware.Gateway
	Admin    *middleware.Gateway
	Catalog  *CatalogHandler
	Orders   *OrderHandler
	Webhooks *WebhookHandler
	AdminAPI *AdminHandler
	Health   *HealthHandler
	Overload *rate.Limiter
}

func NewRouter(deps *RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", deps.Health.HandleHealth).Methods(http.MethodGet)

	// Customer gateway: path-routed, v1 keys, customer envelope.
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(deps.Customer.Authenticate)
	v1.Use(deps.Customer.UsageLogging)
	v1.Use(deps.Customer.RateLimit)

	cg := deps.Customer
	v1.HandleFunc("/balance", cg.RequirePermission("balance", "get", deps.Catalog.HandleGetBalance)).Methods(http.MethodGet)
	v1.HandleFunc("/products", cg.RequirePermission("products", "get_list", deps.Catalog.HandleListProducts)).Methods(http.MethodGet)
	v1.HandleFunc("/products/{id}", cg.RequirePermission("products", "get", deps.Catalog.HandleGetProduct)).Methods(http.MethodGet)
	v1.HandleFunc("/categories", cg.RequirePermission("categories", "get_list", deps.Catalog.HandleListCategories)).Methods(http.MethodGet)
	v1.HandleFunc("/orders", cg.RequirePermission("orders", "create", deps.Orders.HandleCreateOrder)).Methods(http.MethodPost)
	v1.HandleFunc("/orders", cg.RequirePermission("orders", "get_list", deps.Orders.HandleListOrders)).Methods(http.MethodGet)
	v1.HandleFunc("/orders/{id}", cg.RequirePermission("orders", "get", deps.Orders.HandleGetOrder)).Methods(http.MethodGet)
	v1.HandleFunc("/webhooks", cg.RequirePermission("webhooks", "create", deps.Webhooks.HandleRegisterWebhook)).Methods(http.MethodPost)
	v1.HandleFunc("/webhooks", cg.RequirePermission("webhooks", "get_list", deps.Webhooks.HandleListWebhooks)).Methods(http.MethodGet)

	// Admin gateway: a single action-routed entry point, v2 keys, admin
	// envelope. Permission checks happen inside the command dispatch so the
	// denial names the (endpoint, action) pair from the query string.
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(deps.Admin.Authenticate)
	admin.Use(deps.Admin.UsageLogging)
	admin.Use(deps.Admin.RateLimit)
	admin.HandleFunc("", deps.AdminAPI.Handle).Methods(http.MethodGet, http.MethodPost)
	admin.HandleFunc("/", deps.AdminAPI.Handle).Methods(http.MethodGet, http.MethodPost)

	// The outer chain wraps the router itself so preflight OPTIONS and
	// method-mismatched requests still pass through CORS and recovery.
	var handler http.Handler = r
	handler = middleware.OverloadMiddleware(deps.Overload)(handler)
	handler = middleware.CORSMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}
