package integration

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"contentpoller/internal/config"
)

// contentSource serves the fixture tree the way the remote provider lays
// out its list, article and media documents.
type contentSource struct {
	server   *httptest.Server
	requests atomic.Int64
}

func newContentSource(t *testing.T) *contentSource {
	t.Helper()

	src := &contentSource{}
	files := http.FileServer(http.Dir(filepath.Join("..", "fixtures", "source")))

	src.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src.requests.Add(1)
		files.ServeHTTP(w, r)
	}))
	t.Cleanup(src.server.Close)

	return src
}

func (s *contentSource) endpoints() config.EndpointsConfig {
	return config.EndpointsConfig{
		ListURL:   s.server.URL + "/list.json",
		DetailURL: s.server.URL + "/articles/{id}.json",
		MediaURL:  s.server.URL + "/media/{id}.json",
	}
}

func (s *contentSource) detailURL(id string) string {
	return s.server.URL + "/articles/" + id + ".json"
}
