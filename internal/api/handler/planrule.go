// internal/api/handler/planrule.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"investflow/internal/domain"
	"investflow/internal/service"
	"investflow/internal/util"
)

// PlanRuleHandler handles HTTP requests for plan rule management. All write
// routes are admin-facing.
type PlanRuleHandler struct {
	service service.PlanRuleService
	logger  *slog.Logger
}

// NewPlanRuleHandler creates a new PlanRuleHandler.
func NewPlanRuleHandler(svc service.PlanRuleService, logger *slog.Logger) *PlanRuleHandler {
	return &PlanRuleHandler{
		service: svc,
		logger:  logger,
	}
}

// CreatePlanRuleRequest represents the request body for a new rule version.
type CreatePlanRuleRequest struct {
	Name        string          `json:"name"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	SpecialMin  decimal.Decimal `json:"special_min"`
	Bands       domain.BandList `json:"bands"`
	SpecialRate decimal.Decimal `json:"special_rate"`
	AdminCharge decimal.Decimal `json:"admin_charge"`
	Booster     decimal.Decimal `json:"booster"`
}

// Create handles the create plan rule request.
// POST /admin/plan-rules
func (h *PlanRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	rule, err := h.service.Create(r.Context(), &domain.PlanRule{
		Name:        req.Name,
		MinAmount:   req.MinAmount,
		SpecialMin:  req.SpecialMin,
		Bands:       req.Bands,
		SpecialRate: req.SpecialRate,
		AdminCharge: req.AdminCharge,
		Booster:     req.Booster,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, rule)
}

// Activate makes a rule the single active one.
// POST /admin/plan-rules/{ruleID}/activate
func (h *PlanRuleHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "ruleID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if err := h.service.Activate(r.Context(), id); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Plan rule activated"})
}

// GetActive returns the currently active rule.
// GET /plan-rules/active
func (h *PlanRuleHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	rule, err := h.service.GetActive(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, rule)
}
