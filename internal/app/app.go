// Package app assembles the client stack: configuration, observability,
// credential store, session manager and the authenticated API client.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sandeepkv93/gym-crm-cli/internal/api"
	"github.com/sandeepkv93/gym-crm-cli/internal/config"
	"github.com/sandeepkv93/gym-crm-cli/internal/observability"
	"github.com/sandeepkv93/gym-crm-cli/internal/session"
	"github.com/sandeepkv93/gym-crm-cli/internal/tokenstore"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Observability *observability.Runtime
	Store         tokenstore.Store
	Sessions      *session.Manager
	API           *api.Client
}

// New wires the full client from configuration. The API client routes every
// request through the session manager for bearer attach and refresh-on-401.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	runtime, err := observability.InitRuntime(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}
	slog.SetDefault(runtime.Logger)

	store, err := tokenstore.Open(tokenstore.Options{
		Backend:    cfg.Store.Backend,
		StateDir:   cfg.Store.StateDir,
		SQLitePath: cfg.Store.SQLitePath,
		RedisAddr:  cfg.Store.RedisAddr,
		RedisDB:    cfg.Store.RedisDB,
		Namespace:  cfg.Store.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	auth := api.NewAuthClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, cfg.OTEL.Enabled)
	sessions := session.NewManager(store, auth)

	client, err := api.New(api.Config{
		BaseURL:     cfg.Backend.BaseURL,
		Timeout:     cfg.Backend.Timeout,
		TokenSource: sessions,
		Refresher:   sessions,
		OnSessionExpired: func(ctx context.Context) {
			sessions.ForceLogout(ctx)
		},
		EnableOTelHTTP: cfg.OTEL.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        runtime.Logger,
		Observability: runtime,
		Store:         store,
		Sessions:      sessions,
		API:           client,
	}, nil
}

// Close flushes and shuts down the observability pipelines.
func (a *App) Close(ctx context.Context) error {
	if a.Observability == nil {
		return nil
	}
	return a.Observability.Shutdown(ctx)
}
