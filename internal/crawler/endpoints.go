package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"contentpoller/internal/config"
	"contentpoller/internal/models"
)

// Endpoint errors.
var (
	ErrMissingListURL   = errors.New("list URL is required")
	ErrMissingIDPattern = errors.New("URL template must contain " + config.IDPlaceholder)
)

// Endpoints builds the URLs fetched during a cycle.
type Endpoints struct {
	ListURL   string
	DetailURL string
	MediaURL  string
}

// NewEndpoints validates the configured templates.
func NewEndpoints(cfg config.EndpointsConfig) (Endpoints, error) {
	if cfg.ListURL == "" {
		return Endpoints{}, ErrMissingListURL
	}

	for name, tmpl := range map[string]string{"detail": cfg.DetailURL, "media": cfg.MediaURL} {
		if !strings.Contains(tmpl, config.IDPlaceholder) {
			return Endpoints{}, fmt.Errorf("%s: %w", name, ErrMissingIDPattern)
		}
	}

	return Endpoints{
		ListURL:   cfg.ListURL,
		DetailURL: cfg.DetailURL,
		MediaURL:  cfg.MediaURL,
	}, nil
}

// Detail returns the detail URL of an article.
func (e Endpoints) Detail(id models.ArticleID) string {
	return expand(e.DetailURL, id)
}

// Media returns the media collection URL of an article.
func (e Endpoints) Media(id models.ArticleID) string {
	return expand(e.MediaURL, id)
}

func expand(tmpl string, id models.ArticleID) string {
	return strings.ReplaceAll(tmpl, config.IDPlaceholder, url.PathEscape(string(id)))
}
