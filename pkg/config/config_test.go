package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DatabaseConfig(t *testing.T) {
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_NAME", "catalogo")
	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_PORT")
		os.Unsetenv("DB_NAME")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "catalogo", cfg.Database.Database)
	assert.Equal(t, "host=db.internal port=5433 user=postgres password= dbname=catalogo sslmode=disable", cfg.Database.DatabaseDSN())
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("OTEL_ENABLED")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
	assert.True(t, cfg.Redis.Enabled)
	assert.False(t, cfg.OTEL.Enabled)
	assert.Equal(t, "buscador-establecimientos", cfg.OTEL.ServiceName)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-port")
	defer os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
}
