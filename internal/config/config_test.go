package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/risk"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
user = "booking"
dbname = "salon"

[catalog]
url = "http://catalog:8081"

[payments]
provider = "fake"

[risk]
high_price = 5000
`)

	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "host=db port=5432 user=booking password=secret dbname=salon sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "postgres://booking:secret@db:5432/salon?sslmode=disable", cfg.Database.URL())
	assert.Equal(t, int64(5000), cfg.Risk.HighPrice)
	assert.Equal(t, 25, cfg.Risk.FirstTimeCustomer, "defaults survive partial files")
	assert.Equal(t, 24*time.Hour, cfg.AttemptTTL())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing catalog url", body: `[payments]
provider = "fake"`},
		{name: "stripe without key", body: `[catalog]
url = "http://c"
[payments]
provider = "stripe"`},
		{name: "unknown provider", body: `[catalog]
url = "http://c"
[payments]
provider = "paypal"`},
		{name: "bad timezone", body: `[catalog]
url = "http://c"
[booking]
timezone = "Mars/Olympus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestRiskConfig_Weights(t *testing.T) {
	w := defaults().Risk.Weights()
	assert.Equal(t, risk.DefaultWeights(), w)
}
