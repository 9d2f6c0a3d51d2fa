package handlers

import (
	"net/http"
	"strconv"

	"github.com/cardarena/arena-admin/middleware"
	"github.com/cardarena/arena-admin/services"
)

type UserHandler struct {
	userService services.UserService
	ledger      services.LedgerService
}

func NewUserHandler(userService services.UserService, ledger services.LedgerService) *UserHandler {
	return &UserHandler{
		userService: userService,
		ledger:      ledger,
	}
}

// GetByIDHandler handles GET /users/{userID}.
func (h *UserHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /users (admin).
func (h *UserHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.userService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type adjustCoinsInput struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// AdjustCoinsHandler handles POST /users/{userID}/coins/adjust (admin).
func (h *UserHandler) AdjustCoinsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input adjustCoinsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.userService.AdjustCoins(r.Context(), id, input.Amount, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transaction": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type purchaseCoinsInput struct {
	Amount int64 `json:"amount"`
}

// PurchaseCoinsHandler handles POST /users/me/coins/purchase. Credits the
// authenticated user; payment capture is upstream.
func (h *UserHandler) PurchaseCoinsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input purchaseCoinsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.userService.PurchaseCoins(r.Context(), userID, input.Amount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transaction": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BalanceHandler handles GET /users/{userID}/balance. Returns the cached
// balance and the ledger sum so drift is visible from the dashboard.
func (h *UserHandler) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cached, ledger, err := h.ledger.Reconcile(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"balance":    cached,
		"ledger_sum": ledger,
		"reconciled": cached == ledger,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
