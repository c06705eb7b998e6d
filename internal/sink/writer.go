package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"contentpoller/internal/models"
)

const filePerm = 0o644

// WriterSink writes one JSON object per line.
type WriterSink struct {
	w      io.Writer
	closer io.Closer
	mu     sync.Mutex
}

// NewWriterSink writes to w. Closing the sink does not close w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// NewFileSink appends to the file at path, creating it when missing.
func NewFileSink(path string) (*WriterSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open sink file: %w", err)
	}

	return &WriterSink{w: f, closer: f}, nil
}

// Emit writes article as a single line.
func (s *WriterSink) Emit(_ context.Context, article *models.Article) error {
	line, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("failed to marshal article %s: %w", article.ID, err)
	}

	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("failed to write article %s: %w", article.ID, err)
	}

	return nil
}

// Close closes the underlying file, if the sink owns one.
func (s *WriterSink) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}
