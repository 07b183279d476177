package model

import (
	"strings"
	"time"
)

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush    WebhookEventType = "push"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Ref        string           // Pushed ref (e.g. refs/tags/v1.2.3)
	Repository string           // Repository full name
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// IsReleaseTrigger checks whether the event should start a release pipeline.
// Only tag pushes qualify; branch pushes and other event types are ignored.
func (e *WebhookEvent) IsReleaseTrigger() bool {
	return e.Type == EventTypePush && strings.HasPrefix(e.Ref, "refs/tags/")
}
