package config

import (
	"github.com/urfave/cli/v3"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	slackinfra "github.com/acre-dev/stevedore/pkg/infra/slack"
)

// Notify holds notification configuration
type Notify struct {
	SlackWebhookURL string
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for run summaries",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("STEVEDORE_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifier returns the configured notifier, or nil when notification is
// disabled
func (c *Notify) Notifier() interfaces.Notifier {
	if c.SlackWebhookURL == "" {
		return nil
	}
	return slackinfra.NewNotifier(c.SlackWebhookURL)
}
