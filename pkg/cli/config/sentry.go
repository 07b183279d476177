package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/acre-dev/stevedore/pkg/domain/types"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN         string
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN (error reporting disabled when empty)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("STEVEDORE_SENTRY_DSN", "SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "production",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("STEVEDORE_SENTRY_ENV"),
		},
	}
}

// Enabled reports whether error reporting is configured
func (c *Sentry) Enabled() bool {
	return c.DSN != ""
}

// Init initializes the Sentry SDK. No-op when no DSN is configured.
func (c *Sentry) Init() error {
	if !c.Enabled() {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     "stevedore@" + types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry")
	}
	return nil
}
