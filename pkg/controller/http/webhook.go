package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/acre-dev/stevedore/pkg/domain/model"
)

// WebhookHandler handles GitHub webhooks
type WebhookHandler struct {
	secret    string
	processor interfaces.WebhookProcessor
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, processor interfaces.WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		processor: processor,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	event := &model.WebhookEvent{
		ID:         r.Header.Get("X-GitHub-Delivery"),
		Type:       model.WebhookEventType(eventType),
		ReceivedAt: time.Now(),
		RawPayload: body,
	}

	switch e := payload.(type) {
	case *github.PushEvent:
		event.Ref = e.GetRef()
		event.Repository = e.GetRepo().GetFullName()
		event.Sender = e.GetSender().GetLogin()
	default:
		event.Type = model.EventTypeUnknown
	}

	if err := h.processor.ProcessEvent(ctx, event, payload); err != nil {
		logger.Error("Failed to process webhook event", "error", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	// The pipeline itself runs in the background; acknowledge receipt only
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "accepted",
	}); err != nil {
		logger.Error("Failed to encode success response", "error", err)
	}
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
