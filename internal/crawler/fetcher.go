package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"contentpoller/internal/logger"
	"contentpoller/internal/models"
	"contentpoller/internal/normalizer"
)

// ErrMalformedList is returned when the list response is not a JSON array.
var ErrMalformedList = errors.New("article list is not a JSON array")

// Result is the outcome of one article within a cycle. Exactly one of
// Article and Err is set.
type Result struct {
	Article *models.Article
	Err     *models.ArticleError
	ID      models.ArticleID
}

// OK reports whether the article was produced.
func (r Result) OK() bool {
	return r.Err == nil && r.Article != nil
}

// Cycle is one dispatched fan-out. Results is closed once every article
// has resolved; it is buffered so abandoning it does not leak goroutines.
type Cycle struct {
	Results <-chan Result
	ListURL string
	IDs     []models.ArticleID
}

// Fetcher runs the list, detail and media fetches of a cycle.
type Fetcher struct {
	newTransport func() Transport
	processor    *normalizer.Processor
	logger       *logger.Logger
	endpoints    Endpoints
}

// NewFetcher creates a fetcher. newTransport is called once per cycle so
// each cycle gets its own connection pool.
func NewFetcher(endpoints Endpoints, newTransport func() Transport, processor *normalizer.Processor, log *logger.Logger) *Fetcher {
	return &Fetcher{
		endpoints:    endpoints,
		newTransport: newTransport,
		processor:    processor,
		logger:       log,
	}
}

// RunCycle fetches the article list and dispatches one concurrent fetch per
// id. A list failure aborts the cycle and is returned as an error. Per-article
// failures are delivered as Results and never affect siblings.
func (f *Fetcher) RunCycle(ctx context.Context) (*Cycle, error) {
	transport := f.newTransport()

	body, err := transport.Get(ctx, f.endpoints.ListURL)
	if err != nil {
		release(transport)

		return nil, fmt.Errorf("fetch article list: %w", err)
	}

	ids, err := ParseArticleIDs(body)
	if err != nil {
		release(transport)

		return nil, fmt.Errorf("fetch article list: %w", err)
	}

	f.logger.Debug("Article list fetched", "url", f.endpoints.ListURL, "ids", len(ids))

	results := make(chan Result, len(ids))

	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results <- f.fetchArticle(ctx, transport, id)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
		release(transport)
	}()

	return &Cycle{
		Results: results,
		ListURL: f.endpoints.ListURL,
		IDs:     ids,
	}, nil
}

func (f *Fetcher) fetchArticle(ctx context.Context, transport Transport, id models.ArticleID) Result {
	url := f.endpoints.Detail(id)

	body, err := transport.Get(ctx, url)
	if err != nil {
		return failed(id, url, models.KindTransport, err)
	}

	article, err := models.DecodeDocument(body)
	if err != nil {
		return failed(id, url, models.KindDecode, err)
	}

	media := f.fetchMedia(ctx, transport, id)

	produced, err := f.processor.Process(id, url, article, media)
	if err != nil {
		var failure *models.ArticleError
		if errors.As(err, &failure) {
			return Result{ID: id, Err: failure}
		}

		return failed(id, url, models.KindValidation, err)
	}

	return Result{ID: id, Article: produced}
}

// fetchMedia returns the media collection of an article. Any failure yields
// an empty collection.
func (f *Fetcher) fetchMedia(ctx context.Context, transport Transport, id models.ArticleID) []models.Document {
	url := f.endpoints.Media(id)

	body, err := transport.Get(ctx, url)
	if err != nil {
		f.logger.Debug("Media fetch failed, using empty collection", "article_id", id, "url", url, "error", err)

		return nil
	}

	media, err := models.DecodeMedia(body)
	if err != nil {
		f.logger.Debug("Media response unusable, using empty collection", "article_id", id, "url", url, "error", err)

		return nil
	}

	return media
}

// ParseArticleIDs extracts the ids of a list response in order. Entries
// without a usable id are skipped and duplicates are kept once.
func ParseArticleIDs(body []byte) ([]models.ArticleID, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedList
	}

	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		return nil, ErrMalformedList
	}

	var ids []models.ArticleID

	seen := make(map[models.ArticleID]bool)

	list.ForEach(func(_, entry gjson.Result) bool {
		id, ok := idFromResult(entry.Get(models.FieldID))
		if ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}

		return true
	})

	return ids, nil
}

func idFromResult(r gjson.Result) (models.ArticleID, bool) {
	switch r.Type {
	case gjson.String:
		if r.Str == "" {
			return "", false
		}

		return models.ArticleID(r.Str), true
	case gjson.Number:
		if r.Num == 0 {
			return "", false
		}

		return models.ArticleID(r.String()), true
	default:
		return "", false
	}
}

func failed(id models.ArticleID, url string, kind models.FailureKind, err error) Result {
	return Result{
		ID: id,
		Err: &models.ArticleError{
			ArticleID: id,
			URL:       url,
			Kind:      kind,
			Err:       err,
		},
	}
}

// release closes the pooled connections of transports that keep any.
func release(transport Transport) {
	if closer, ok := transport.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}
