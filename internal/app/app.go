// Package app wires together configuration, the API client, session state
// and the controllers into a single Deps struct that commands receive at
// runtime.
package app

import (
	"fmt"
	"log/slog"

	"github.com/derickschaefer/bidash/internal/api"
	"github.com/derickschaefer/bidash/internal/config"
	"github.com/derickschaefer/bidash/internal/controller"
	"github.com/derickschaefer/bidash/internal/render"
	"github.com/derickschaefer/bidash/internal/view"
)

// Deps holds all runtime dependencies injected into command Run functions.
// One Deps is one session: a single State shared by every controller.
type Deps struct {
	Config    *config.Config
	Client    *api.Client
	State     *view.State
	Session   *controller.Session
	Formatter *render.Formatter
	Logger    *slog.Logger
}

// New builds a Deps from resolved config. A nil logger uses slog.Default().
func New(cfg *config.Config, version string, logger *slog.Logger) (*Deps, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := render.NewFormatter(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale: %w", err)
	}

	state := view.New()
	client := api.NewClient(
		cfg.BaseURL,
		state.SessionID(),
		cfg.Timeout,
		cfg.Rate,
		cfg.Debug,
	)
	if version != "" {
		client.SetUserAgent("bidash/" + version)
	}

	return &Deps{
		Config:    cfg,
		Client:    client,
		State:     state,
		Session:   controller.NewSession(state, client, logger),
		Formatter: f,
		Logger:    logger,
	}, nil
}
