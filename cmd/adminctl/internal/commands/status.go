package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/segurosnorte/adminctl/internal/config"
)

// StatusCmd checks whether the admin API is reachable, retrying with
// exponential backoff until it answers or the attempts run out.
type StatusCmd struct {
	Server   string        `help:"Server URL override" env:"ADMINCTL_SERVER"`
	Attempts uint          `help:"Maximum attempts" default:"5"`
	Timeout  time.Duration `help:"Per-request timeout" default:"5s"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return err
	}
	if s.Server != "" {
		cfg.ServerURL = s.Server
	}

	httpClient := &http.Client{Timeout: s.Timeout}
	healthURL := cfg.ServerURL + "/api/health"

	check := func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return "", backoff.Permanent(err)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			log.Debug().Err(err).Msg("health check failed")
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("health endpoint returned HTTP %d", resp.StatusCode)
		}

		return resp.Status, nil
	}

	status, err := backoff.Retry(ctx, check,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.Attempts),
	)
	if err != nil {
		return fmt.Errorf("server %s is not reachable: %w", cfg.ServerURL, err)
	}

	fmt.Printf("Server %s is up (%s)\n", cfg.ServerURL, status)
	return nil
}
