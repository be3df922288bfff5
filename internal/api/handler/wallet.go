// internal/api/handler/wallet.go
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

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	service service.WalletService
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		logger:  logger,
	}
}

// GetWallet handles the get wallet request.
// GET /users/{userID}/wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"user_id":      user.ID,
		"balance":      user.Balance,
		"locked":       user.Locked,
		"available":    user.Available(),
		"total_profit": user.TotalProfit,
		"total_payout": user.TotalPayout,
	})
}

// GetLedgerHistory handles the get ledger history request.
// GET /users/{userID}/ledger
func (h *WalletHandler) GetLedgerHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	limit, offset := pagination(r)

	entries, total, err := h.service.GetLedgerHistory(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.LedgerEntry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// AdminWalletRequest represents the request body for an administrative wallet
// mutation. Note is mandatory for every admin operation.
type AdminWalletRequest struct {
	AdminID int64           `json:"admin_id"`
	Kind    string          `json:"kind"` // credit, debit, set_balance, set_locked, add_profit
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note"`
}

// adminEntryTypes maps the admin-exposed operation kinds to their ledger tags.
var adminEntryTypes = map[domain.OperationKind]string{
	domain.OpCredit:     domain.EntryTypeAdminWalletCredit,
	domain.OpDebit:      domain.EntryTypeAdminWalletDebit,
	domain.OpSetBalance: domain.EntryTypeAdminWalletCredit,
	domain.OpSetLocked:  domain.EntryTypeAdminWalletDebit,
	domain.OpAddProfit:  domain.EntryTypeAdminAddProfit,
}

// AdminMutate handles an administrative wallet adjustment.
// POST /admin/users/{userID}/wallet
func (h *WalletHandler) AdminMutate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req AdminWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.AdminID <= 0 || req.Note == "" {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	kind := domain.OperationKind(req.Kind)
	entryType, ok := adminEntryTypes[kind]
	if !ok {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, entry, err := h.service.Apply(r.Context(), userID, domain.WalletOperation{
		Kind:   kind,
		Amount: req.Amount,
		Type:   entryType,
		Note:   req.Note,
		Meta:   domain.LedgerMeta{AdminID: &req.AdminID},
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":     "Wallet updated",
		"user_id":     user.ID,
		"balance":     user.Balance,
		"locked":      user.Locked,
		"ledger_id":   entry.ID,
		"ledger_type": entry.Type,
	})
}
