// internal/api/handler/user.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"investflow/internal/service"
	"investflow/internal/util"
)

// UserHandler handles HTTP requests for registration and referral credits.
type UserHandler struct {
	service   service.UserService
	referrals service.ReferralService
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, referrals service.ReferralService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:   svc,
		referrals: referrals,
		logger:    logger,
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email      string `json:"email"`
	ReferredBy *int64 `json:"referred_by,omitempty"`
}

// Register handles the user registration request.
// POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.ReferredBy)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, user)
}

// Get handles the get user request.
// GET /users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, user)
}

// ReferralCreditRequest represents the request body for a referral credit.
type ReferralCreditRequest struct {
	SourceUserID int64           `json:"source_user_id"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
}

// CreditReferral credits a referral earning to the referrer of the source user.
// POST /admin/referrals/credit
func (h *UserHandler) CreditReferral(w http.ResponseWriter, r *http.Request) {
	var req ReferralCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.SourceUserID <= 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	entry, err := h.referrals.CreditEarning(r.Context(), req.SourceUserID, req.Amount, req.Note)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, entry)
}
