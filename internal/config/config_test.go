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
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_PATH", "GEMINI_MODEL", "ORACLE_TIMEOUT", "LOG_LEVEL", "CORS_ORIGIN"} {
		t.Setenv(k, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "students.db", cfg.DBPath)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 2*time.Minute, cfg.OracleTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "yoru")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "studentdb")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("ORACLE_TIMEOUT", "45")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 45*time.Second, cfg.OracleTimeout)
	assert.Equal(t, "host=db user=yoru password=secret dbname=studentdb port=5433 sslmode=disable", cfg.PostgresDSN())
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ORACLE_TIMEOUT", "")
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("ORACLE_TIMEOUT")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GEMINI_API_KEY=from-file\nLOG_LEVEL=debug\nORACLE_TIMEOUT=90s\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("ORACLE_TIMEOUT")
	})

	cfg := Load(envFile)

	assert.Equal(t, "from-file", cfg.GeminiAPIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.OracleTimeout)
}

func TestGetDurationInvalid(t *testing.T) {
	t.Setenv("ORACLE_TIMEOUT", "soon")
	assert.Equal(t, time.Minute, getDuration("ORACLE_TIMEOUT", time.Minute))
}
