package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
server:
  host: "127.0.0.1"
  port: 8080
database:
  host: "localhost"
  port: 5432
  user: "inventory"
  database: "church_inventory"
  ssl_mode: "disable"
jwt:
  secret: "test-secret-0123456789abcdef0123456789"
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Database.OpTimeoutSeconds)
	assert.Equal(t, "0 0 8 * * *", cfg.Scheduler.SendOverdueReminders)
	assert.Equal(t, "0 30 8 * * *", cfg.Scheduler.SendLowStockAlerts)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
	assert.Contains(t, cfg.GetDatabaseConnectionString(), "church_inventory")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	_, err := Load(writeConfig(t, `
server:
  port: 8080
database:
  host: "localhost"
  user: "inventory"
  database: "church_inventory"
jwt:
  secret: "short"
`))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
}
