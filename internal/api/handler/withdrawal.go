// internal/api/handler/withdrawal.go
package handler

import (
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

// WithdrawalHandler handles HTTP requests for the withdrawal workflow.
type WithdrawalHandler struct {
	service service.WithdrawalService
	logger  *slog.Logger
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(svc service.WithdrawalService, logger *slog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateWithdrawalRequest represents the request body for a withdrawal request.
type CreateWithdrawalRequest struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"`
}

// Create handles a new withdrawal request.
// POST /withdrawals
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.UserID <= 0 || req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	wd, err := h.service.Create(r.Context(), req.UserID, req.Amount, domain.WithdrawalSource(req.Source))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, wd)
}

// WithdrawalActionRequest represents the admin action request body.
type WithdrawalActionRequest struct {
	AdminID int64  `json:"admin_id"`
	Reason  string `json:"reason"`
	RRN     string `json:"rrn"`
	Gateway string `json:"gateway"`
}

// Approve handles the admin approval of a withdrawal.
// POST /admin/withdrawals/{withdrawalID}/approve
func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	wd, err := h.service.Approve(r.Context(), id, req.AdminID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, wd)
}

// Reject handles the admin rejection of a withdrawal.
// POST /admin/withdrawals/{withdrawalID}/reject
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	wd, err := h.service.Reject(r.Context(), id, req.AdminID, req.Reason)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, wd)
}

// MarkPaid records a settled withdrawal.
// POST /admin/withdrawals/{withdrawalID}/pay
func (h *WithdrawalHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	wd, err := h.service.MarkPaid(r.Context(), id, req.AdminID, req.RRN, req.Gateway)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, wd)
}

// MarkFailed records a failed disbursement and refunds the net amount.
// POST /admin/withdrawals/{withdrawalID}/fail
func (h *WithdrawalHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	wd, err := h.service.MarkFailed(r.Context(), id, req.AdminID, req.Reason)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, wd)
}

// ListByUser handles the list withdrawals request.
// GET /users/{userID}/withdrawals
func (h *WithdrawalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	limit, offset := pagination(r)

	wds, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Withdrawal]{
		Data:       wds,
		Limit:      limit,
		Offset:     offset,
		TotalCount: int64(len(wds)),
	})
}

func (h *WithdrawalHandler) parse(r *http.Request) (int64, WithdrawalActionRequest, error) {
	var req WithdrawalActionRequest
	id, err := pathID(chi.URLParam(r, "withdrawalID"))
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
