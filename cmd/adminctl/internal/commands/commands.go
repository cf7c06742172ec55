package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/segurosnorte/adminctl/internal/api"
	"github.com/segurosnorte/adminctl/internal/config"
	"github.com/segurosnorte/adminctl/internal/gateway"
	"github.com/segurosnorte/adminctl/internal/guard"
	"github.com/segurosnorte/adminctl/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
	Config  string
}

// ErrAccessDenied is returned when the guard denies a console area.
var ErrAccessDenied = errors.New("access denied")

// app bundles the wired session and API client for a command run.
type app struct {
	cfg    config.Config
	store  *session.Store
	state  *session.State
	client *api.Client
}

// buildApp wires the console: config file, session store, auth gateway,
// session state and the authenticated API client. serverOverride and
// sessionDirOverride win over the config file when non-empty.
func buildApp(globals *Globals, serverOverride, sessionDirOverride string) (*app, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if serverOverride != "" {
		cfg.ServerURL = serverOverride
	}
	if sessionDirOverride != "" {
		cfg.SessionDir = sessionDirOverride
	}

	store, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	gw := gateway.New(cfg.ServerURL, cfg.RequestTimeout())

	state := session.NewState(store, gw, session.WithNavigator(func() {
		fmt.Println("Session ended. Run 'adminctl login' to sign in again.")
	}))

	clientID, err := store.ClientID()
	if err != nil {
		return nil, err
	}

	client := api.New(api.Config{
		ServerURL: cfg.ServerURL,
		Timeout:   cfg.RequestTimeout(),
		ClientID:  clientID,
		Cache:     true,
	}, state, log.Logger)

	return &app{cfg: cfg, store: store, state: state, client: client}, nil
}

// requireRoles gates a console area on the current session.
func (a *app) requireRoles(roles ...session.Role) error {
	decision := guard.RequireRoles(a.state, roles...)
	if decision.Allowed {
		return nil
	}

	if !a.state.IsAuthenticated() {
		return fmt.Errorf("%w: not signed in, run 'adminctl login'", ErrAccessDenied)
	}
	return fmt.Errorf("%w: your role is not allowed for this area", ErrAccessDenied)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
