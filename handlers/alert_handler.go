package handlers

import (
	"net/http"
	"strconv"

	"github.com/cardarena/arena-admin/services"
	"github.com/go-chi/chi/v5"
)

type AlertHandler struct {
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// ListHandler handles GET /alerts (admin).
func (h *AlertHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	unackedOnly := r.URL.Query().Get("unacked") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	alerts, err := h.alertService.List(r.Context(), unackedOnly, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"alerts": alerts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AcknowledgeHandler handles POST /alerts/{alertID}/ack (admin).
func (h *AlertHandler) AcknowledgeHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "alertID")

	if err := h.alertService.Acknowledge(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"acknowledged": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
