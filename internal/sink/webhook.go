package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"contentpoller/internal/config"
	"contentpoller/internal/logger"
	"contentpoller/internal/models"
	"contentpoller/pkg/metadata"
)

// Webhook headers.
const (
	HeaderContentHash = "X-Content-Hash"
	HeaderSignature   = "X-Signature"
	HeaderArticleID   = "X-Article-ID"
)

const (
	webhookTimeout  = 30 * time.Second
	maxResponseSize = 1024 * 1024
)

// ErrUnexpectedStatusCode is returned when the webhook rejects an article.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// WebhookSink POSTs every article to an HTTP endpoint.
type WebhookSink struct {
	httpClient    *http.Client
	logger        *logger.Logger
	url           string
	apiKey        string
	signingSecret string
}

// NewWebhookSink creates a webhook sink. log may be nil.
func NewWebhookSink(cfg config.WebhookConfig, log *logger.Logger) *WebhookSink {
	return &WebhookSink{
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
		logger:        log,
		url:           cfg.URL,
		apiKey:        cfg.APIKey,
		signingSecret: cfg.SigningSecret,
	}
}

// Emit posts the article JSON. Any non-2xx answer is an error.
func (s *WebhookSink) Emit(ctx context.Context, article *models.Article) error {
	body, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("failed to marshal article %s: %w", article.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderArticleID, string(article.ID))
	req.Header.Set(HeaderContentHash, metadata.CalculateHash(body))

	if s.apiKey != "" {
		req.Header.Set("Authorization", s.apiKey)
	}

	if s.signingSecret != "" {
		req.Header.Set(HeaderSignature, metadata.Sign(body, s.signingSecret))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		answer, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))

		if s.logger != nil {
			s.logger.Debug("Webhook rejected article", "article_id", article.ID, "status", resp.StatusCode, "body", string(answer))
		}

		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	return nil
}

// Close releases idle connections.
func (s *WebhookSink) Close() error {
	s.httpClient.CloseIdleConnections()

	return nil
}
