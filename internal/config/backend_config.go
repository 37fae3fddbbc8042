package config

import (
	"fmt"
	"time"
)

const (
	portEnvVar       = "PORT"
	tokenSecretVar   = "TOKEN_SECRET"
	tokenTTLVar      = "TOKEN_TTL"
	viewerBaseURLVar = "VIEWER_BASE_URL"
	seedEmailVar     = "SEED_EMAIL"
	seedPasswordVar  = "SEED_PASSWORD"
	seedHospitalVar  = "SEED_HOSPITAL"
)

func (c mainConfig) GetPort() string {
	port := c.get(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

// GetTokenSecret returns an empty string when unset; the dev backend then
// generates a random secret per run.
func (c mainConfig) GetTokenSecret() string {
	return c.get(tokenSecretVar, "")
}

func (c mainConfig) GetTokenTTL() time.Duration {
	return parseDuration(c.get(tokenTTLVar, ""), 12*time.Hour)
}

func (c mainConfig) GetViewerBaseURL() string {
	return c.get(viewerBaseURLVar, "http://localhost:3000")
}

func (c mainConfig) GetSeedEmail() string {
	return c.get(seedEmailVar, "admin@viewer.local")
}

// GetSeedPassword returns an empty string when unset; a password is then
// generated and printed at bootstrap.
func (c mainConfig) GetSeedPassword() string {
	return c.get(seedPasswordVar, "")
}

func (c mainConfig) GetSeedHospital() string {
	return c.get(seedHospitalVar, "general-hospital")
}
