package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/snakada/flipcard/internal/auth"
	"github.com/snakada/flipcard/internal/config"
	"github.com/snakada/flipcard/internal/database"
	"github.com/snakada/flipcard/internal/localstore"
	"github.com/snakada/flipcard/internal/remote"
	"github.com/snakada/flipcard/internal/settings"
	"github.com/snakada/flipcard/internal/store"
	"github.com/snakada/flipcard/internal/transport"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// app bundles the wired-up pieces a command needs: configuration, the local
// durable store, the database-backed remote, and the reconciling app store.
type app struct {
	cfg        *config.Config
	local      *localstore.Store
	db         *sqlx.DB
	signal     transport.Signal
	store      *store.Store
	authClient *auth.Client
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	local, err := localstore.New(cfg.Storage.Directory)
	if err != nil {
		return nil, fmt.Errorf("localstore.New(%s) > %w", cfg.Storage.Directory, err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open > %w", err)
	}

	var signal transport.Signal
	if offlineMode {
		signal = transport.Static(false)
	} else {
		signal = transport.NewPingSignal(db)
	}

	dbStore := remote.NewDBStore(db)
	appStore := store.New(local, dbStore, remote.NewExecutor(dbStore), signal, settings.DetectSystemTheme())

	return &app{
		cfg:        cfg,
		local:      local,
		db:         db,
		signal:     signal,
		store:      appStore,
		authClient: auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.APIKey, local),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// signIn resolves the cached session and brings the store up for its user.
func (a *app) signIn(ctx context.Context) (auth.Session, error) {
	session, err := a.authClient.CurrentSession()
	if err != nil {
		return auth.Session{}, fmt.Errorf("sign in first with 'flipcard auth signin': %w", err)
	}
	if err := a.store.Initialize(ctx, session.UserID); err != nil {
		return auth.Session{}, fmt.Errorf("store.Initialize > %w", err)
	}
	return session, nil
}

// printNotice surfaces the store's advisory notice, if any, without failing
// the command.
func (a *app) printNotice() {
	if notice := a.store.Notice(); notice != "" {
		fmt.Printf("Note: %s\n", notice)
	}
}
