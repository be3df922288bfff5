// internal/api/handler/kyc.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"investflow/internal/service"
	"investflow/internal/util"
)

// KYCHandler handles HTTP requests for KYC submission and review.
type KYCHandler struct {
	service service.KYCService
	logger  *slog.Logger
}

// NewKYCHandler creates a new KYCHandler.
func NewKYCHandler(svc service.KYCService, logger *slog.Logger) *KYCHandler {
	return &KYCHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitKYCRequest represents the request body for a KYC submission.
type SubmitKYCRequest struct {
	UserID  int64  `json:"user_id"`
	DocType string `json:"doc_type"`
	DocURL  string `json:"doc_url"`
}

// Submit handles a KYC document submission.
// POST /kyc
func (h *KYCHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitKYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.UserID <= 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	doc, err := h.service.Submit(r.Context(), req.UserID, req.DocType, req.DocURL)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, doc)
}

// KYCReviewRequest represents the admin review request body.
type KYCReviewRequest struct {
	AdminID int64  `json:"admin_id"`
	Remarks string `json:"remarks"`
}

// Approve handles the admin approval of a KYC document.
// POST /admin/kyc/{docID}/approve
func (h *KYCHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	doc, err := h.service.Approve(r.Context(), id, req.AdminID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, doc)
}

// Reject handles the admin rejection of a KYC document.
// POST /admin/kyc/{docID}/reject
func (h *KYCHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.parse(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	doc, err := h.service.Reject(r.Context(), id, req.AdminID, req.Remarks)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, doc)
}

// ListByUser handles the list KYC submissions request.
// GET /users/{userID}/kyc
func (h *KYCHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	docs, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{"data": docs})
}

func (h *KYCHandler) parse(r *http.Request) (int64, KYCReviewRequest, error) {
	var req KYCReviewRequest
	id, err := pathID(chi.URLParam(r, "docID"))
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
