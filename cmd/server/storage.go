package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpggio/bidboard/internal/bolt"
	"github.com/rpggio/bidboard/internal/config"
	"github.com/rpggio/bidboard/internal/deploy"
	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/rpggio/bidboard/internal/sqlite"
)

type apiKeyStore interface {
	Add(ctx context.Context, token string, id account.Identity, description string) error
	ResolveOwner(ctx context.Context, token string) (account.Identity, error)
}

// storage is the set of repositories for the configured driver.
type storage struct {
	projects  project.Repository
	history   history.Repository
	addresses deploy.AddressBook
	apiKeys   apiKeyStore
	close     func() error
}

func openStorage(cfg config.DBConfig) (*storage, error) {
	if err := ensureDBDir(cfg.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	switch cfg.Driver {
	case "bolt":
		store, err := bolt.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &storage{
			projects:  bolt.NewProjectRepository(store),
			history:   bolt.NewHistoryRepository(store),
			addresses: bolt.NewComponentRepository(store),
			apiKeys:   bolt.NewAPIKeyRepository(store),
			close:     store.Close,
		}, nil
	default:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return &storage{
			projects:  sqlite.NewProjectRepository(db),
			history:   sqlite.NewHistoryRepository(db),
			addresses: sqlite.NewComponentRepository(db),
			apiKeys:   sqlite.NewAPIKeyRepository(db),
			close:     db.Close,
		}, nil
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
