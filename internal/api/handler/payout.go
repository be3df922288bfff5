// internal/api/handler/payout.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"investflow/internal/domain"
	"investflow/internal/service"
	"investflow/internal/util"
)

// PayoutHandler handles HTTP requests for payout status transitions. All
// routes are admin-facing.
type PayoutHandler struct {
	service service.PayoutService
	logger  *slog.Logger
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(svc service.PayoutService, logger *slog.Logger) *PayoutHandler {
	return &PayoutHandler{
		service: svc,
		logger:  logger,
	}
}

// PayoutActionRequest represents the request body for a payout transition.
type PayoutActionRequest struct {
	AdminID int64  `json:"admin_id"`
	RRN     string `json:"rrn"`
	Gateway string `json:"gateway"`
	Reason  string `json:"reason"`
}

// MarkPaid settles a payout.
// POST /admin/payouts/{payoutID}/pay
func (h *PayoutHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	p, err := h.service.MarkPaid(r.Context(), id, req.AdminID, req.RRN, req.Gateway)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, p)
}

// MarkProcessing moves a payout into processing.
// POST /admin/payouts/{payoutID}/process
func (h *PayoutHandler) MarkProcessing(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.service.MarkProcessing)
}

// MarkFailed records a failed disbursement attempt.
// POST /admin/payouts/{payoutID}/fail
func (h *PayoutHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.service.MarkFailed)
}

// MarkOnHold parks a payout.
// POST /admin/payouts/{payoutID}/hold
func (h *PayoutHandler) MarkOnHold(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.service.MarkOnHold)
}

// Reschedule returns a failed or on-hold payout to scheduled.
// POST /admin/payouts/{payoutID}/reschedule
func (h *PayoutHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.service.Reschedule)
}

// Reprocess moves a failed or on-hold payout into reprocessing.
// POST /admin/payouts/{payoutID}/reprocess
func (h *PayoutHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.service.Reprocess)
}

func (h *PayoutHandler) parse(r *http.Request) (int64, PayoutActionRequest, error) {
	var req PayoutActionRequest
	id, err := pathID(chi.URLParam(r, "payoutID"))
	if err != nil {
		return 0, req, err
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, req, util.ErrInvalidInput
	}
	if req.AdminID <= 0 {
		return 0, req, util.ErrInvalidInput
	}
	return id, req, nil
}

func (h *PayoutHandler) simple(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error)) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	p, err := fn(r.Context(), id, req.AdminID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, p)
}

func (h *PayoutHandler) withReason(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, payoutID, adminID int64, reason string) (*domain.Payout, error)) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	p, err := fn(r.Context(), id, req.AdminID, req.Reason)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, p)
}
