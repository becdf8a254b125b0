package api

import (
	"net/http"

	"github.com/Mediamoney08/mediamoney-gateway/middleware"
	"github.com/Mediamoney08/mediamoney-gateway/services"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func CreateCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, products)
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, product)
}

func (h *CatalogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, categories)
}

func (h *CatalogHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.APIKeyFromContext(r.Context())
	if !ok {
		WriteCustomerError(w, utils.ErrInternal)
		return
	}

	balance, err := h.catalog.GetBalance(r.Context(), key.OwnerID)
	if err != nil {
		WriteCustomerError(w, err)
		return
	}
	WriteCustomerSuccess(w, http.StatusOK, balance)
}
