package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	Environment    string
	TotalSlots     int
	RatePerHour    int64
	AdminUsername  string
	AdminPassword  string
	JWTSecret      string
	JWTExpiry      time.Duration
	DataDir        string
	PaymentPayeeID string
	RestoreOnStart bool
	OTel           OTelConfig
}

type OTelConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		TotalSlots:     getEnvInt("TOTAL_SLOTS", 5),
		RatePerHour:    int64(getEnvInt("RATE_PER_HOUR", 20)),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "1234"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiry:      getEnvDuration("JWT_EXPIRES_IN", 12*time.Hour),
		DataDir:        getEnv("DATA_DIR", "."),
		PaymentPayeeID: getEnv("PAYMENT_PAYEE_ID", ""),
		RestoreOnStart: getEnvBool("RESTORE_ON_START", false),
		OTel: OTelConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "smart-parking-service"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
