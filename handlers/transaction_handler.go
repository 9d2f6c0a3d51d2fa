package handlers

import (
	"net/http"
	"strconv"

	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
	"github.com/cardarena/arena-admin/services"
)

type TransactionHandler struct {
	ledger services.LedgerService
}

func NewTransactionHandler(ledger services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// ListHandler handles GET /transactions (admin). Supports user_id, type and
// tournament_id filters.
func (h *TransactionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListTransactionsFilter
	query := r.URL.Query()

	if userStr := query.Get("user_id"); userStr != "" {
		if id, err := strconv.Atoi(userStr); err == nil && id > 0 {
			filter.UserID = &id
		}
	}
	if typeStr := query.Get("type"); typeStr != "" {
		txType := models.TransactionType(typeStr)
		filter.Type = &txType
	}
	if tournamentStr := query.Get("tournament_id"); tournamentStr != "" {
		if id, err := strconv.Atoi(tournamentStr); err == nil && id > 0 {
			filter.TournamentID = &id
		}
	}
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	transactions, err := h.ledger.History(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transactions": transactions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByUserHandler handles GET /users/{userID}/transactions.
func (h *TransactionHandler) ListByUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	transactions, err := h.ledger.History(r.Context(), repositories.ListTransactionsFilter{
		UserID: &id,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transactions": transactions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
