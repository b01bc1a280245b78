package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_APP_PORT", "8080")
	t.Setenv("CATALOG_APP_ENV", "production")
	t.Setenv("CATALOG_DATABASE_DRIVER", "sqlite")
	t.Setenv("CATALOG_DATABASE_URL", "file::memory:")
	t.Setenv("CATALOG_JWT_ACCESS_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN())
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", User: "u", Password: "p", Name: "catalog",
		Port: 5433, SSLMode: "disable", TimeZone: "UTC",
	}
	assert.Equal(t,
		"host=db user=u password=p dbname=catalog port=5433 sslmode=disable TimeZone=UTC",
		d.DSN(),
	)
}
