package config

import (
	"path/filepath"
	"strings"
)

// StoreKind names a storage backend.
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
	StoreRedis  StoreKind = "redis"
)

// Valid reports whether k is a known backend.
func (k StoreKind) Valid() bool {
	switch k {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis:
		return true
	}
	return false
}

const (
	durableStoreVar  = "DURABLE_STORE"
	volatileStoreVar = "VOLATILE_STORE"
	redisAddrVar     = "REDIS_ADDR"
	redisPrefixVar   = "REDIS_PREFIX"
	sqlitePathVar    = "SQLITE_PATH"
	tabIDVar         = "TAB_ID"
)

func (c mainConfig) GetDurableStore() StoreKind {
	return StoreKind(strings.ToLower(c.get(durableStoreVar, string(StoreFile))))
}

// GetVolatileStore defaults to a per-tab file so that separate CLI
// invocations in one tab share the cached profile.
func (c mainConfig) GetVolatileStore() StoreKind {
	return StoreKind(strings.ToLower(c.get(volatileStoreVar, string(StoreFile))))
}

func (c mainConfig) GetRedisAddr() string {
	return c.get(redisAddrVar, "localhost:6379")
}

func (c mainConfig) GetRedisPrefix() string {
	return c.get(redisPrefixVar, "viewer")
}

func (c mainConfig) GetSQLitePath() string {
	return c.get(sqlitePathVar, filepath.Join(c.GetDataFolder(), "credentials.db"))
}

func (c mainConfig) GetTabID() string {
	return c.get(tabIDVar, "default")
}
