package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Rewards  RewardsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// RewardsConfig holds the platform economics. Services receive these values at
// construction; nothing reads them from globals.
type RewardsConfig struct {
	ConversionRate      float64 // BRL per point
	FeePercentage       float64 // fraction of gross, e.g. 0.05
	MinConversionPoints int
	MaxMonthlyCash      float64 // gross BRL per user per calendar month
	SignupBonusPoints   int
	ShippingBaseRate    float64
	ShippingPerKg       float64
	ShippingPerCubicM   float64
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "opina:opina@tcp(localhost:3306)/opina?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "opina",
		},
		Rewards: RewardsConfig{
			ConversionRate:      getEnvFloat("CONVERSION_RATE", 0.005),
			FeePercentage:       getEnvFloat("CONVERSION_FEE_PCT", 0.05),
			MinConversionPoints: getEnvInt("CONVERSION_MIN_POINTS", 2000),
			MaxMonthlyCash:      getEnvFloat("CONVERSION_MAX_MONTHLY", 500.00),
			SignupBonusPoints:   getEnvInt("SIGNUP_BONUS_POINTS", 100),
			ShippingBaseRate:    15.00,
			ShippingPerKg:       2.50,
			ShippingPerCubicM:   100.00,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
