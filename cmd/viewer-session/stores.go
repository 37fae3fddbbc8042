package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/storage/filestore"
	"github.com/jrsteele09/go-viewer-session/storage/memory"
	"github.com/jrsteele09/go-viewer-session/storage/redisstore"
	"github.com/jrsteele09/go-viewer-session/storage/sqlitestore"
)

const durableFileName = "credentials.yaml"

// openStore opens the backend named by kind. A non-empty tab scopes the
// store to one tab: its own file, or a key prefix in a shared database.
// The returned store must be closed by the caller; for scoped shared
// stores closer releases the underlying connection.
func openStore(ctx context.Context, kind config.StoreKind, cfg config.Config, tab string) (store storage.Store, closer func() error, err error) {
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("unknown store %q", kind)
	}

	var base storage.Store
	switch kind {
	case config.StoreMemory:
		base = memory.New()
	case config.StoreFile:
		name := durableFileName
		if tab != "" {
			name = "tab-" + tab + ".yaml"
		}
		base, err = filestore.Open(filepath.Join(cfg.GetDataFolder(), name))
	case config.StoreSQLite:
		base, err = sqlitestore.Open(cfg.GetSQLitePath())
	case config.StoreRedis:
		base, err = redisstore.Dial(ctx, cfg.GetRedisAddr(), cfg.GetRedisPrefix())
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", kind, err)
	}

	if tab != "" && (kind == config.StoreSQLite || kind == config.StoreRedis) {
		return storage.NewNamespaced(base, "tab:"+tab), base.Close, nil
	}
	return base, base.Close, nil
}
