// Package sink hands canonical articles to their downstream consumer.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"

	"contentpoller/internal/config"
	"contentpoller/internal/logger"
	"contentpoller/internal/models"
)

// ErrUnknownSink is returned for an unsupported sink type.
var ErrUnknownSink = errors.New("unknown sink type")

// Sink receives every article produced by a cycle.
type Sink interface {
	Emit(ctx context.Context, article *models.Article) error
	Close() error
}

// New creates the sink selected by cfg.
func New(cfg config.SinkConfig, log *logger.Logger) (Sink, error) {
	switch cfg.Type {
	case "", config.SinkStdout:
		return NewWriterSink(os.Stdout), nil
	case config.SinkFile:
		return NewFileSink(cfg.Path)
	case config.SinkRedis:
		return NewRedisStreamSink(cfg.Redis), nil
	case config.SinkWebhook:
		return NewWebhookSink(cfg.Webhook, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSink, cfg.Type)
	}
}
