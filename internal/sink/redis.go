package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contentpoller/internal/config"
	"contentpoller/internal/models"
	"contentpoller/pkg/metadata"
)

// StreamAdder is the part of the Redis client the stream sink needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStreamSink appends every article to a Redis stream.
type RedisStreamSink struct {
	client StreamAdder
	closer func() error
	stream string
}

// NewRedisStreamSink connects to the configured Redis server.
func NewRedisStreamSink(cfg config.RedisConfig) *RedisStreamSink {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	s := NewRedisStreamSinkWithClient(client, cfg.Stream)
	s.closer = client.Close

	return s
}

// NewRedisStreamSinkWithClient creates a stream sink on an existing client.
func NewRedisStreamSinkWithClient(client StreamAdder, stream string) *RedisStreamSink {
	return &RedisStreamSink{
		client: client,
		stream: stream,
	}
}

// Emit adds one stream entry carrying the article JSON and its metadata.
func (s *RedisStreamSink) Emit(ctx context.Context, article *models.Article) error {
	body, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("marshal article %s: %w", article.ID, err)
	}

	meta := metadata.New(body)

	result := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":         meta.ID.String(),
			"article_id": string(article.ID),
			"hash":       meta.Hash,
			"emitted_at": meta.EmittedAt.Format(time.RFC3339),
			"article":    string(body),
		},
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("publish article %s to stream %s: %w", article.ID, s.stream, err)
	}

	return nil
}

// Close releases the Redis connection, if the sink owns it.
func (s *RedisStreamSink) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer()
}
