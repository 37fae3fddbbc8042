package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileConfig is the layout of the optional TOML config file.
type fileConfig struct {
	AppName     string `toml:"app_name"`
	Env         string `toml:"env"`
	LogLevel    string `toml:"log_level"`
	DataFolder  string `toml:"data_folder"`
	HTTPTimeout string `toml:"http_timeout"`

	API struct {
		BaseURL      string `toml:"base_url"`
		DashboardURL string `toml:"dashboard_url"`
	} `toml:"api"`

	Storage struct {
		Durable     string `toml:"durable"`
		Volatile    string `toml:"volatile"`
		RedisAddr   string `toml:"redis_addr"`
		RedisPrefix string `toml:"redis_prefix"`
		SQLitePath  string `toml:"sqlite_path"`
		TabID       string `toml:"tab_id"`
	} `toml:"storage"`

	Backend struct {
		Port          string `toml:"port"`
		TokenSecret   string `toml:"token_secret"`
		TokenTTL      string `toml:"token_ttl"`
		ViewerBaseURL string `toml:"viewer_base_url"`
		SeedEmail     string `toml:"seed_email"`
		SeedPassword  string `toml:"seed_password"`
		SeedHospital  string `toml:"seed_hospital"`
	} `toml:"backend"`
}

func (f fileConfig) values() map[string]string {
	return map[string]string{
		appNameVar:       f.AppName,
		envEnvVar:        f.Env,
		logLevelEnvVar:   f.LogLevel,
		folderEnvVar:     f.DataFolder,
		timeoutEnvVar:    f.HTTPTimeout,
		apiBaseURLVar:    f.API.BaseURL,
		dashboardURLVar:  f.API.DashboardURL,
		durableStoreVar:  f.Storage.Durable,
		volatileStoreVar: f.Storage.Volatile,
		redisAddrVar:     f.Storage.RedisAddr,
		redisPrefixVar:   f.Storage.RedisPrefix,
		sqlitePathVar:    f.Storage.SQLitePath,
		tabIDVar:         f.Storage.TabID,
		portEnvVar:       f.Backend.Port,
		tokenSecretVar:   f.Backend.TokenSecret,
		tokenTTLVar:      f.Backend.TokenTTL,
		viewerBaseURLVar: f.Backend.ViewerBaseURL,
		seedEmailVar:     f.Backend.SeedEmail,
		seedPasswordVar:  f.Backend.SeedPassword,
		seedHospitalVar:  f.Backend.SeedHospital,
	}
}

// Load returns a Config where values set in the TOML file at path take
// precedence over the environment. An empty path behaves like New.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	var f fileConfig
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("[config.Load] decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("[config.Load] unknown keys in %s: %v", path, undecoded)
	}
	return mainConfig{overrides: f.values()}, nil
}

// WithOverrides returns a Config with the given env var names pinned.
// Used by commands that take flags for individual values.
func WithOverrides(base Config, overrides map[string]string) Config {
	merged := map[string]string{}
	if mc, ok := base.(mainConfig); ok {
		for k, v := range mc.overrides {
			merged[k] = v
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return mainConfig{overrides: merged}
}
