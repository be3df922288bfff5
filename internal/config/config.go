// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"investflow/pkg/db" // Import db package for its Config struct
)

// WithdrawalConfig holds the fee knobs applied to withdrawal requests.
type WithdrawalConfig struct {
	MinAmount decimal.Decimal
	ChargePct decimal.Decimal
	ChargeCap decimal.Decimal
	TDSPct    decimal.Decimal
}

// KYCRateLimitConfig bounds how often one user may submit KYC documents.
type KYCRateLimitConfig struct {
	Max    int64
	Window time.Duration
}

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort   string
	DB           db.Config
	RedisAddr    string
	Withdrawal   WithdrawalConfig
	KYCRateLimit KYCRateLimitConfig
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real environment
// variables win over file values.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // optional, missing file is fine

	serverPort := getEnv("SERVER_PORT", "8080")

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	withdrawMin, err := decimalEnv("WITHDRAW_MIN_AMOUNT", "100")
	if err != nil {
		return nil, err
	}
	withdrawChargePct, err := decimalEnv("WITHDRAW_CHARGE_PCT", "0.02")
	if err != nil {
		return nil, err
	}
	withdrawChargeCap, err := decimalEnv("WITHDRAW_CHARGE_CAP", "50")
	if err != nil {
		return nil, err
	}
	withdrawTDSPct, err := decimalEnv("WITHDRAW_TDS_PCT", "0.02")
	if err != nil {
		return nil, err
	}

	kycMax, err := strconv.ParseInt(getEnv("KYC_RATE_LIMIT_MAX", "5"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid KYC_RATE_LIMIT_MAX: %w", err)
	}
	kycWindow, err := time.ParseDuration(getEnv("KYC_RATE_LIMIT_WINDOW", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid KYC_RATE_LIMIT_WINDOW: %w", err)
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "investflowdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Withdrawal: WithdrawalConfig{
			MinAmount: withdrawMin,
			ChargePct: withdrawChargePct,
			ChargeCap: withdrawChargeCap,
			TDSPct:    withdrawTDSPct,
		},
		KYCRateLimit: KYCRateLimitConfig{
			Max:    kycMax,
			Window: kycWindow,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
