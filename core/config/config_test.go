package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080/geoserver/", cfg.Geoserver.Location)
	assert.Equal(t, "admin", cfg.Geoserver.User)
	assert.False(t, cfg.Geoserver.WPSEnabled)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Spatial.Port)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GEOSERVER_WPS_ENABLED", "true")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SPATIAL_NAME", "geodata")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Geoserver.WPSEnabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Spatial.Enabled())
}
