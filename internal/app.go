// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "investflow/internal/api"
	"investflow/internal/api/handler"
	"investflow/internal/config"
	"investflow/internal/ratelimit"
	"investflow/internal/repository"
	"investflow/internal/repository/postgres"
	"investflow/internal/service"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository       repository.UserRepository
	LedgerRepository     repository.LedgerRepository
	InvestmentRepository repository.InvestmentRepository
	PayoutRepository     repository.PayoutRepository
	WithdrawalRepository repository.WithdrawalRepository
	PlanRuleRepository   repository.PlanRuleRepository
	KYCRepository        repository.KYCRepository

	// Services
	UserService       service.UserService
	WalletService     service.WalletService
	InvestmentService service.InvestmentService
	PayoutService     service.PayoutService
	WithdrawalService service.WithdrawalService
	ReferralService   service.ReferralService
	KYCService        service.KYCService
	PlanRuleService   service.PlanRuleService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Connect to Redis (rate limiting)
	app.Redis = redis.NewClient(&redis.Options{Addr: app.Config.RedisAddr})
	if err := app.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.Logger.Info("Redis connection established.")

	// 5. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.LedgerRepository = postgres.NewLedgerRepository(app.DB)
	app.InvestmentRepository = postgres.NewInvestmentRepository(app.DB)
	app.PayoutRepository = postgres.NewPayoutRepository(app.DB)
	app.WithdrawalRepository = postgres.NewWithdrawalRepository(app.DB)
	app.PlanRuleRepository = postgres.NewPlanRuleRepository(app.DB)
	app.KYCRepository = postgres.NewKYCRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.WalletService = service.NewWalletService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.LedgerRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.UserService = service.NewUserService(app.DB, app.UserRepository)
	app.InvestmentService = service.NewInvestmentService(
		app.DB, app.DB,
		app.InvestmentRepository,
		app.PayoutRepository,
		app.PlanRuleRepository,
		app.WalletService,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.PayoutService = service.NewPayoutService(
		app.DB, app.DB,
		app.PayoutRepository,
		app.InvestmentRepository,
		app.WalletService,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.WithdrawalService = service.NewWithdrawalService(
		app.DB, app.DB,
		app.WithdrawalRepository,
		app.WalletService,
		service.WithdrawalPolicy{
			MinAmount: app.Config.Withdrawal.MinAmount,
			ChargePct: app.Config.Withdrawal.ChargePct,
			ChargeCap: app.Config.Withdrawal.ChargeCap,
			TDSPct:    app.Config.Withdrawal.TDSPct,
		},
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.ReferralService = service.NewReferralService(app.DB, app.UserRepository, app.WalletService)
	kycLimiter := ratelimit.NewRedisLimiter(app.Redis, app.Config.KYCRateLimit.Max, app.Config.KYCRateLimit.Window)
	app.KYCService = service.NewKYCService(
		app.DB, app.DB,
		app.KYCRepository,
		app.UserRepository,
		kycLimiter,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.PlanRuleService = service.NewPlanRuleService(
		app.DB, app.DB,
		app.PlanRuleRepository,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		User:       handler.NewUserHandler(app.UserService, app.ReferralService, app.Logger),
		Wallet:     handler.NewWalletHandler(app.WalletService, app.Logger),
		Investment: handler.NewInvestmentHandler(app.InvestmentService, app.PayoutService, app.Logger),
		Payout:     handler.NewPayoutHandler(app.PayoutService, app.Logger),
		Withdrawal: handler.NewWithdrawalHandler(app.WithdrawalService, app.Logger),
		KYC:        handler.NewKYCHandler(app.KYCService, app.Logger),
		PlanRule:   handler.NewPlanRuleHandler(app.PlanRuleService, app.Logger),
	}
	app.HTTPHandler = router.NewRouter(handlers, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
