package config

import "time"

type Config interface {
	EnvConfig
	StorageConfig
	RoutesConfig
	BackendConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetHTTPTimeout() time.Duration
	GetEnv() string
}

type StorageConfig interface {
	GetDurableStore() StoreKind
	GetVolatileStore() StoreKind
	GetRedisAddr() string
	GetRedisPrefix() string
	GetSQLitePath() string
	GetTabID() string
}

type RoutesConfig interface {
	GetAPIBaseURL() string
	GetDashboardURL() string
}

// BackendConfig is read by the dev backend only.
type BackendConfig interface {
	GetPort() string
	GetTokenSecret() string
	GetTokenTTL() time.Duration
	GetViewerBaseURL() string
	GetSeedEmail() string
	GetSeedPassword() string
	GetSeedHospital() string
}

// mainConfig resolves every value from overrides first (a loaded TOML
// file), then the environment, then the default.
type mainConfig struct {
	overrides map[string]string
}

var _ Config = mainConfig{}

func New() Config {
	return mainConfig{}
}

func (c mainConfig) get(envVar, defaultValue string) string {
	if v, ok := c.overrides[envVar]; ok && v != "" {
		return v
	}
	return GetEnv(envVar, defaultValue)
}
