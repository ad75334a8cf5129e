package root

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"bulletquest/internal/config"
	"bulletquest/internal/engine"
	"bulletquest/internal/storage"
)

func openStore(ctx context.Context, c *config.Config) (*storage.Store, func(), error) {
	store, err := storage.Open(ctx, c.Storage.Driver, c.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = store.Close()
	}
	return store, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	catalog, err := engine.LoadCatalog(cfg.Missions.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := engine.NewService(store, engine.Options{
		GracePeriod:           cfg.Missions.GracePeriod,
		DefaultTaskXP:         cfg.Tasks.DefaultXP,
		StorageTimeout:        cfg.Storage.Timeout,
		AllowZombieCompletion: cfg.Tasks.AllowZombieCompletion,
		AreaHealthCeiling:     cfg.Areas.HealthCeiling,
		Catalog:               catalog,
	})
	return svc, cleanup, nil
}

// newLogger writes to stderr and, when log.file is set, appends to that file.
func newLogger(c *config.Config) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closeFn = func() { _ = f.Close() }
	}
	return log.New(w, "bq ", log.LstdFlags), closeFn, nil
}

// defaultChatID picks the identity for local commands: the explicit flag, else
// the first allowed chat id.
func defaultChatID(flag int64) (int64, error) {
	if flag != 0 {
		return flag, nil
	}
	if len(cfg.Chat.AllowedIDs) == 0 {
		return 0, fmt.Errorf("no chat id: pass --as or set chat.allowed_ids")
	}
	return cfg.Chat.AllowedIDs[0], nil
}
