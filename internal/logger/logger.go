package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

// Requests is an http.RoundTripper that logs every outgoing API call
// with its duration and status.
type Requests struct {
	base   http.RoundTripper
	logger zerolog.Logger
}

// NewRequests wraps base with request logging. A nil base uses
// http.DefaultTransport.
func NewRequests(base http.RoundTripper, logger zerolog.Logger) *Requests {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Requests{base: base, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (r *Requests) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	resp, err := r.base.RoundTrip(req)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(started)).
			Msg("api call")
		return resp, err
	}

	r.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api call")

	return resp, err
}
