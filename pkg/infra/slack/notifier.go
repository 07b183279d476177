package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	slackgo "github.com/slack-go/slack"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/acre-dev/stevedore/pkg/domain/model"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a Notifier posting run summaries to a Slack incoming
// webhook
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{webhookURL: webhookURL}
}

// NotifyReport posts a one-message summary of the pipeline run
func (n *notifier) NotifyReport(ctx context.Context, report *model.Report) error {
	msg := &slackgo.WebhookMessage{
		Text: formatReport(report),
	}
	if err := slackgo.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("run_id", report.RunID),
		)
	}
	return nil
}

func formatReport(report *model.Report) string {
	var sb strings.Builder

	if report.Failed() {
		fmt.Fprintf(&sb, ":warning: Release %s finished with failures\n", report.Version)
	} else {
		fmt.Fprintf(&sb, ":rocket: Release %s published\n", report.Version)
	}
	for _, o := range report.Outcomes {
		if o.Uploaded {
			fmt.Fprintf(&sb, "• %s: uploaded `%s`\n", o.Platform, o.AssetName)
		} else {
			fmt.Fprintf(&sb, "• %s: failed (%v)\n", o.Platform, o.Err)
		}
	}
	if report.Release != nil && report.Release.HTMLURL != "" {
		sb.WriteString(report.Release.HTMLURL)
	}

	return sb.String()
}
