package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("DURABLE_STORE", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")

	c := config.New()
	require.Equal(t, "http://localhost:8080", c.GetAPIBaseURL())
	require.Equal(t, config.StoreFile, c.GetDurableStore())
	require.Equal(t, time.Duration(0), c.GetHTTPTimeout())
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, 12*time.Hour, c.GetTokenTTL())
}

func TestNew_EnvVars(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("DURABLE_STORE", "Redis")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("PORT", ":9090")

	c := config.New()
	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, config.StoreRedis, c.GetDurableStore())
	require.True(t, c.GetDurableStore().Valid())
	require.Equal(t, 5*time.Second, c.GetHTTPTimeout())
	require.Equal(t, ":9090", c.GetPort())
}

func TestLoad_FileOverridesEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://env.example.com")
	t.Setenv("TAB_ID", "from-env")

	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
env = "PROD"

[api]
base_url = "https://file.example.com"
dashboard_url = "https://portal.example.com/dashboard"

[storage]
durable = "sqlite"
`), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://file.example.com", c.GetAPIBaseURL())
	require.Equal(t, "https://portal.example.com/dashboard", c.GetDashboardURL())
	require.Equal(t, config.StoreSQLite, c.GetDurableStore())
	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, "from-env", c.GetTabID())
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("unknown_key = 1\n"), 0o600))
	_, err = config.Load(path)
	require.Error(t, err)

	c, err := config.Load("")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestWithOverrides(t *testing.T) {
	t.Setenv("TAB_ID", "")
	c := config.WithOverrides(config.New(), map[string]string{"TAB_ID": "tab-1"})
	require.Equal(t, "tab-1", c.GetTabID())
	require.False(t, config.StoreKind("bogus").Valid())
}
