package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appNameVar     = "APP_NAME"
	folderEnvVar   = "DATA_FOLDER"
	logLevelEnvVar = "LOG_LEVEL"
	timeoutEnvVar  = "HTTP_TIMEOUT"
	envEnvVar      = "ENV"
)

func (c mainConfig) GetAppName() string {
	return c.get(appNameVar, "Viewer Session")
}

func (c mainConfig) GetDataFolder() string {
	return c.get(folderEnvVar, defaultDataFolder())
}

func (c mainConfig) GetLogLevel() string {
	return c.get(logLevelEnvVar, "info")
}

// GetHTTPTimeout returns zero when unset so transport defaults apply.
func (c mainConfig) GetHTTPTimeout() time.Duration {
	return parseDuration(c.get(timeoutEnvVar, ""), 0)
}

func (c mainConfig) GetEnv() string {
	return c.get(envEnvVar, "DEV")
}

func defaultDataFolder() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "viewer-session")
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
