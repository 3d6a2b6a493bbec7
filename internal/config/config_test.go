package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PAYMENT_INTENT_GRACE_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "America/Chicago", cfg.BusinessTimezone)
	assert.Equal(t, 120*time.Second, cfg.PaymentIntentGrace())
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
server_port = "9000"
business_timezone = "America/Sao_Paulo"
payment_intent_grace_seconds = 30
kafka_brokers = ["k1:9092", "k2:9092"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("PAYMENT_INTENT_GRACE_SECONDS", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.ServerPort, "env wins over file")
	assert.Equal(t, "America/Sao_Paulo", cfg.BusinessTimezone)
	assert.Equal(t, 30*time.Second, cfg.PaymentIntentGrace())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsNegativeGrace(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PAYMENT_INTENT_GRACE_SECONDS", "-5")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		getEnvList("CORS_ALLOWED_ORIGINS", nil),
	)
}
