package interfaces

import (
	"context"

	"github.com/acre-dev/stevedore/pkg/domain/model"
)

// Pipeline defines the release pipeline entrypoint
type Pipeline interface {
	// Run executes one release pipeline for the pushed tag ref. The report
	// is non-nil whenever the run got past release creation, even when the
	// returned error is non-nil (partial publication).
	Run(ctx context.Context, ref string) (*model.Report, error)
}

// WebhookProcessor handles parsed webhook events from the hosting platform
type WebhookProcessor interface {
	// ProcessEvent inspects the event and dispatches a pipeline run when it
	// is a release trigger. Must return quickly; pipeline runs happen in the
	// background.
	ProcessEvent(ctx context.Context, event *model.WebhookEvent, payload any) error
}

// Notifier announces a finished pipeline run to an external channel
type Notifier interface {
	NotifyReport(ctx context.Context, report *model.Report) error
}
