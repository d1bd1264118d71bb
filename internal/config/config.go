package config

import (
	"os"
	"strconv"

	"astrader_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	StoreDriver string // "postgres" or "memory"
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Hour of day (UTC) at which the daily ROI job fires.
	AccrualHour int

	// Base URL used when building referral links.
	ReferralBaseURL string

	APIRateLimit         int
	APIRateWindowSeconds int
}

// Load reads configuration from the environment (.env supported).
func Load() *Config {
	_ = godotenv.Load()

	storeDriver := os.Getenv("STORE_DRIVER")
	if storeDriver == "" {
		storeDriver = "postgres"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && storeDriver == "postgres" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	accrualHour := 0 // midnight UTC
	if v := os.Getenv("ACCRUAL_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 23 {
			accrualHour = n
		}
	}

	referralBase := os.Getenv("REFERRAL_BASE_URL")
	if referralBase == "" {
		referralBase = "https://astrader.app/signup"
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}
	apiRateWindow := 60
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = n
		}
	}

	return &Config{
		AppPort:              port,
		StoreDriver:          storeDriver,
		DatabaseURL:          dbURL,
		JWTSecret:            jwtSecret,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		AccrualHour:          accrualHour,
		ReferralBaseURL:      referralBase,
		APIRateLimit:         apiRateLimit,
		APIRateWindowSeconds: apiRateWindow,
	}
}
