package github

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/acre-dev/stevedore/pkg/domain/model"
	"github.com/acre-dev/stevedore/pkg/utils/async"
)

// EventProcessor turns GitHub webhook events into pipeline runs
type EventProcessor struct {
	pipeline interfaces.Pipeline
	notifier interfaces.Notifier
}

// NewEventProcessor creates a new GitHub event processor. notifier may be nil
// when no notification channel is configured.
func NewEventProcessor(pipeline interfaces.Pipeline, notifier interfaces.Notifier) *EventProcessor {
	return &EventProcessor{
		pipeline: pipeline,
		notifier: notifier,
	}
}

// ProcessEvent dispatches a release pipeline run for tag pushes and ignores
// everything else. The pipeline runs in the background so the webhook
// response is not held open for the duration of the builds.
func (p *EventProcessor) ProcessEvent(ctx context.Context, event *model.WebhookEvent, payload any) error {
	logger := ctxlog.From(ctx)

	push, ok := payload.(*github.PushEvent)
	if !ok {
		logger.Info("Ignoring unsupported event type", "event_type", event.Type)
		return nil
	}

	ref := push.GetRef()
	if !event.IsReleaseTrigger() {
		logger.Info("Ignoring push for non-release ref",
			"ref", ref,
			"repository", event.Repository,
		)
		return nil
	}

	logger.Info("Dispatching release pipeline",
		"ref", ref,
		"repository", event.Repository,
		"sender", event.Sender,
	)

	async.Dispatch(ctx, func(ctx context.Context) error {
		report, err := p.pipeline.Run(ctx, ref)
		if report != nil && p.notifier != nil {
			if notifyErr := p.notifier.NotifyReport(ctx, report); notifyErr != nil {
				ctxlog.From(ctx).Warn("Failed to notify pipeline report", "error", notifyErr)
			}
		}
		return err
	})

	return nil
}
