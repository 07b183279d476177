package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/acre-dev/stevedore/pkg/controller/http"
	"github.com/acre-dev/stevedore/pkg/domain/model"
)

// mockProcessor is a mock implementation of WebhookProcessor
type mockProcessor struct {
	mu     sync.Mutex
	events []*model.WebhookEvent
}

func (m *mockProcessor) ProcessEvent(ctx context.Context, event *model.WebhookEvent, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockProcessor) received() []*model.WebhookEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.WebhookEvent(nil), m.events...)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

const pushPayload = `{
	"ref": "refs/tags/v1.2.3",
	"repository": {"full_name": "acre-dev/acre"},
	"sender": {"login": "octocat"}
}`

func newTestServer(t *testing.T, processor *mockProcessor) *controller.Server {
	t.Helper()
	server, err := controller.NewServer(
		context.Background(),
		processor,
		controller.WithWebhookSecret("test-secret"),
	)
	gt.NoError(t, err)
	return server
}

func TestWebhook_ValidPushEvent(t *testing.T) {
	processor := &mockProcessor{}
	server := newTestServer(t, processor)

	body := []byte(pushPayload)
	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", "delivery-1")
	req.Header.Set("X-Hub-Signature-256", sign("test-secret", body))

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	events := processor.received()
	gt.Number(t, len(events)).Equal(1)
	gt.Value(t, events[0].Type).Equal(model.EventTypePush)
	gt.Value(t, events[0].Ref).Equal("refs/tags/v1.2.3")
	gt.Value(t, events[0].Repository).Equal("acre-dev/acre")
	gt.Value(t, events[0].Sender).Equal("octocat")
	gt.Value(t, events[0].ID).Equal("delivery-1")
}

func TestWebhook_InvalidSignature(t *testing.T) {
	processor := &mockProcessor{}
	server := newTestServer(t, processor)

	body := []byte(pushPayload)
	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-Hub-Signature-256", sign("wrong-secret", body))

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	gt.Number(t, len(processor.received())).Equal(0)
}

func TestWebhook_MissingSignature(t *testing.T) {
	processor := &mockProcessor{}
	server := newTestServer(t, processor)

	body := []byte(pushPayload)
	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", "push")

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	gt.Number(t, len(processor.received())).Equal(0)
}

func TestWebhook_UnknownEventType(t *testing.T) {
	processor := &mockProcessor{}
	server := newTestServer(t, processor)

	body := []byte(`{"action": "opened", "issue": {"number": 1}}`)
	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", "issues")
	req.Header.Set("X-Hub-Signature-256", sign("test-secret", body))

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	events := processor.received()
	gt.Number(t, len(events)).Equal(1)
	gt.Value(t, events[0].Type).Equal(model.EventTypeUnknown)
}

func TestWebhook_InvalidPayload(t *testing.T) {
	processor := &mockProcessor{}
	server := newTestServer(t, processor)

	body := []byte("not json")
	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-Hub-Signature-256", sign("test-secret", body))

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.Number(t, len(processor.received())).Equal(0)
}
