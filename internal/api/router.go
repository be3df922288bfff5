// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"investflow/internal/api/handler"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	User       *handler.UserHandler
	Wallet     *handler.WalletHandler
	Investment *handler.InvestmentHandler
	Payout     *handler.PayoutHandler
	Withdrawal *handler.WithdrawalHandler
	KYC        *handler.KYCHandler
	PlanRule   *handler.PlanRuleHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// User-facing routes
	r.Post("/users", h.User.Register)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", h.User.Get)
		r.Get("/wallet", h.Wallet.GetWallet)
		r.Get("/ledger", h.Wallet.GetLedgerHistory)
		r.Get("/investments", h.Investment.ListByUser)
		r.Get("/withdrawals", h.Withdrawal.ListByUser)
		r.Get("/kyc", h.KYC.ListByUser)
	})

	r.Route("/investments", func(r chi.Router) {
		r.Post("/", h.Investment.Create)
		r.Get("/{investmentID}", h.Investment.Get)
		r.Post("/{investmentID}/proof", h.Investment.SubmitProof)
		r.Get("/{investmentID}/payouts", h.Investment.ListPayouts)
	})

	r.Post("/withdrawals", h.Withdrawal.Create)
	r.Post("/kyc", h.KYC.Submit)
	r.Get("/plan-rules/active", h.PlanRule.GetActive)

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Post("/users/{userID}/wallet", h.Wallet.AdminMutate)
		r.Post("/referrals/credit", h.User.CreditReferral)

		r.Route("/investments/{investmentID}", func(r chi.Router) {
			r.Post("/approve", h.Investment.Approve)
			r.Post("/reject", h.Investment.Reject)
			r.Post("/cancel", h.Investment.Cancel)
		})

		r.Route("/payouts/{payoutID}", func(r chi.Router) {
			r.Post("/pay", h.Payout.MarkPaid)
			r.Post("/process", h.Payout.MarkProcessing)
			r.Post("/fail", h.Payout.MarkFailed)
			r.Post("/hold", h.Payout.MarkOnHold)
			r.Post("/reschedule", h.Payout.Reschedule)
			r.Post("/reprocess", h.Payout.Reprocess)
		})

		r.Route("/withdrawals/{withdrawalID}", func(r chi.Router) {
			r.Post("/approve", h.Withdrawal.Approve)
			r.Post("/reject", h.Withdrawal.Reject)
			r.Post("/pay", h.Withdrawal.MarkPaid)
			r.Post("/fail", h.Withdrawal.MarkFailed)
		})

		r.Route("/kyc/{docID}", func(r chi.Router) {
			r.Post("/approve", h.KYC.Approve)
			r.Post("/reject", h.KYC.Reject)
		})

		r.Route("/plan-rules", func(r chi.Router) {
			r.Post("/", h.PlanRule.Create)
			r.Post("/{ruleID}/activate", h.PlanRule.Activate)
		})
	})

	return r
}
