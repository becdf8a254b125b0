package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Mediamoney08/mediamoney-gateway/utils"
)

const maxPageLimit = 100

// CustomerResponse is the envelope every customer-gateway endpoint uses.
// Existing integrators depend on this exact shape.
type CustomerResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// AdminResponse is the admin-gateway envelope. It is deliberately not
// unified with CustomerResponse; both shapes are load-bearing.
type AdminResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func WriteCustomerSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, CustomerResponse{
		Success: true,
		Data:    data,
	})
}

func WriteCustomerError(w http.ResponseWriter, err error) {
	ge := utils.AsGatewayError(err)
	writeJSON(w, ge.Status, CustomerResponse{
		Success: false,
		Error:   ge.Code,
		Message: ge.Message,
	})
}

func WriteAdminSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, AdminResponse{
		Code:    "SUCCESS",
		Message: message,
		Data:    data,
	})
}

func WriteAdminError(w http.ResponseWriter, err error) {
	ge := utils.AsGatewayError(err)
	writeJSON(w, ge.Status, AdminResponse{
		Code:    "FAIL",
		Message: ge.Message,
	})
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
