package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.TotalSlots)
	assert.Equal(t, int64(20), cfg.RatePerHour)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.False(t, cfg.RestoreOnStart)
	assert.Equal(t, "smart-parking-service", cfg.OTel.ServiceName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TOTAL_SLOTS", "12")
	t.Setenv("RATE_PER_HOUR", "50")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("RESTORE_ON_START", "true")
	t.Setenv("PAYMENT_PAYEE_ID", "parking@upi")

	cfg := Load()

	assert.Equal(t, 12, cfg.TotalSlots)
	assert.Equal(t, int64(50), cfg.RatePerHour)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.True(t, cfg.RestoreOnStart)
	assert.Equal(t, "parking@upi", cfg.PaymentPayeeID)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TOTAL_SLOTS", "-3")
	t.Setenv("RATE_PER_HOUR", "banana")
	t.Setenv("JWT_EXPIRES_IN", "soon")

	cfg := Load()

	assert.Equal(t, 5, cfg.TotalSlots)
	assert.Equal(t, int64(20), cfg.RatePerHour)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
}
