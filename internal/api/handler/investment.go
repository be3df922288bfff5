// internal/api/handler/investment.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"investflow/internal/api/types"
	"investflow/internal/domain"
	"investflow/internal/service"
	"investflow/internal/util"
)

// InvestmentHandler handles HTTP requests for the investment lifecycle.
type InvestmentHandler struct {
	service service.InvestmentService
	payouts service.PayoutService
	logger  *slog.Logger
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(svc service.InvestmentService, payouts service.PayoutService, logger *slog.Logger) *InvestmentHandler {
	return &InvestmentHandler{
		service: svc,
		payouts: payouts,
		logger:  logger,
	}
}

// CreateInvestmentRequest represents the request body for creating an investment.
type CreateInvestmentRequest struct {
	UserID         int64           `json:"user_id"`
	Principal      decimal.Decimal `json:"principal"`
	Method         string          `json:"method"`
	MonthDuration  int             `json:"month_duration"`
	BoosterApplied bool            `json:"booster_applied"`
}

// Create handles the create investment request.
// POST /investments
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.UserID <= 0 || req.Principal.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	inv, err := h.service.Create(r.Context(), req.UserID, req.Principal, req.Method, req.MonthDuration, req.BoosterApplied)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, inv)
}

// SubmitProofRequest represents the request body for proof submission.
type SubmitProofRequest struct {
	ProofURL string `json:"proof_url"`
	UTR      string `json:"utr"`
}

// SubmitProof handles the proof-of-payment submission.
// POST /investments/{investmentID}/proof
func (h *InvestmentHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	var req SubmitProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	inv, err := h.service.SubmitProof(r.Context(), id, req.ProofURL, req.UTR)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, inv)
}

// ReviewRequest represents the admin review request body.
type ReviewRequest struct {
	AdminID int64  `json:"admin_id"`
	Remarks string `json:"remarks"`
}

// Approve handles the admin approval of an investment.
// POST /admin/investments/{investmentID}/approve
func (h *InvestmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.AdminID <= 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	inv, err := h.service.Approve(r.Context(), id, req.AdminID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, inv)
}

// Reject handles the admin rejection of an investment.
// POST /admin/investments/{investmentID}/reject
func (h *InvestmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject)
}

// Cancel handles the admin cancellation of an active investment.
// POST /admin/investments/{investmentID}/cancel
func (h *InvestmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Cancel)
}

func (h *InvestmentHandler) review(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, investmentID, adminID int64, remarks string) (*domain.Investment, error)) {
	id, err := pathID(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.AdminID <= 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	inv, err := fn(r.Context(), id, req.AdminID, req.Remarks)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, inv)
}

// Get handles the get investment request.
// GET /investments/{investmentID}
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, inv)
}

// ListByUser handles the list investments request.
// GET /users/{userID}/investments
func (h *InvestmentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	limit, offset := pagination(r)

	invs, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Investment]{
		Data:       invs,
		Limit:      limit,
		Offset:     offset,
		TotalCount: int64(len(invs)),
	})
}

// ListPayouts handles the payout schedule listing for an investment.
// GET /investments/{investmentID}/payouts
func (h *InvestmentHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	payouts, err := h.payouts.ListByInvestment(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{"data": payouts})
}
