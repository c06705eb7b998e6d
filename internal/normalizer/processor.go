package normalizer

import (
	"errors"
	"fmt"

	"contentpoller/internal/models"
)

// Processor turns one fetched article and its media collection into a
// validated canonical article.
type Processor struct {
	articles  *ArticleNormalizer
	media     *MediaNormalizer
	validator *Validator
}

// NewProcessor creates a new processor instance using the wall clock.
func NewProcessor() *Processor {
	return NewProcessorWithDates(NewDateNormalizer())
}

// NewProcessorWithDates creates a processor sharing the given date normalizer.
func NewProcessorWithDates(dates *DateNormalizer) *Processor {
	return &Processor{
		articles:  NewArticleNormalizer(dates, NewTextSanitizer()),
		media:     NewMediaNormalizer(dates),
		validator: NewValidator(),
	}
}

// MediaByID keeps the media referenced by article, normalized and keyed by id.
// Media without an id or not referenced by any media section are dropped.
func (p *Processor) MediaByID(article models.Document, media []models.Document) (map[models.ArticleID]models.Document, error) {
	refs := ReferencedMedia(article)
	byID := make(map[models.ArticleID]models.Document, len(refs))

	for _, m := range media {
		id, ok := m.ID()
		if !ok {
			continue
		}

		if _, referenced := refs[id]; !referenced {
			continue
		}

		normalized, err := p.media.Normalize(m)
		if err != nil {
			var dateErr *DateError
			if errors.As(err, &dateErr) {
				dateErr.Field = fmt.Sprintf("media[%s].%s", id, dateErr.Field)
			}

			return nil, err
		}

		byID[id] = normalized
	}

	return byID, nil
}

// Process normalizes article with its media, stamps url and validates the
// result. Failures are returned as *models.ArticleError.
func (p *Processor) Process(id models.ArticleID, url string, article models.Document, media []models.Document) (*models.Article, error) {
	mediaByID, err := p.MediaByID(article, media)
	if err != nil {
		return nil, dateFailure(id, url, err)
	}

	normalized, err := p.articles.Normalize(article, mediaByID)
	if err != nil {
		return nil, dateFailure(id, url, err)
	}

	normalized[models.FieldURL] = url

	if err := p.validator.Validate(normalized); err != nil {
		failure := &models.ArticleError{
			ArticleID: id,
			URL:       url,
			Kind:      models.KindValidation,
			Err:       err,
		}

		var valErr *ValidationError
		if errors.As(err, &valErr) {
			failure.Fields = valErr.Fields
		}

		return nil, failure
	}

	return &models.Article{ID: id, Fields: normalized}, nil
}

func dateFailure(id models.ArticleID, url string, err error) *models.ArticleError {
	failure := &models.ArticleError{
		ArticleID: id,
		URL:       url,
		Kind:      models.KindMalformedDate,
		Err:       err,
	}

	var dateErr *DateError
	if errors.As(err, &dateErr) {
		failure.Fields = []models.FieldError{{
			Path:    dateErr.Field,
			Rule:    "date_format",
			Message: fmt.Sprintf("cannot parse %q", fmt.Sprint(dateErr.Value)),
		}}
	}

	return failure
}
