// Package normalizer converts fetched source records into canonical articles.
package normalizer

import (
	"errors"
	"fmt"
	"time"

	"contentpoller/internal/models"
)

// Source date layouts. Publication dates separate the time fields with
// semicolons, modification dates with colons.
const (
	PublicationLayout  = "2006-01-02-15;04;05"
	ModificationLayout = "2006-01-02-15:04:05"
)

// OutputLayout is the layout of every normalized date.
const OutputLayout = time.RFC3339

// ErrMalformedDate is returned when a present date cannot be parsed.
var ErrMalformedDate = errors.New("malformed date")

// DateError describes a date field that failed to parse.
type DateError struct {
	Value any
	Field string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %v: %q", e.Field, ErrMalformedDate, fmt.Sprint(e.Value))
}

// Unwrap returns ErrMalformedDate.
func (e *DateError) Unwrap() error {
	return ErrMalformedDate
}

// DateNormalizer parses source dates and renders them in OutputLayout.
type DateNormalizer struct {
	now func() time.Time
}

// NewDateNormalizer creates a date normalizer using the wall clock.
func NewDateNormalizer() *DateNormalizer {
	return NewDateNormalizerWithClock(time.Now)
}

// NewDateNormalizerWithClock creates a date normalizer with a custom clock.
func NewDateNormalizerWithClock(now func() time.Time) *DateNormalizer {
	return &DateNormalizer{now: now}
}

// Normalize parses raw against layout. A nil raw yields the current time.
// Source dates carry no zone and are read as UTC.
func (d *DateNormalizer) Normalize(raw any, layout string) (string, error) {
	if raw == nil {
		return d.now().UTC().Format(OutputLayout), nil
	}

	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: not a string: %v", ErrMalformedDate, raw)
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDate, err)
	}

	return t.UTC().Format(OutputLayout), nil
}

// normalizeDates writes publication_date and modification_date from the
// source pub_date and mod_date fields of doc, removing the source fields.
func (d *DateNormalizer) normalizeDates(doc models.Document) error {
	pub, err := d.Normalize(doc[models.FieldPubDate], PublicationLayout)
	if err != nil {
		return &DateError{Field: models.FieldPubDate, Value: doc[models.FieldPubDate]}
	}

	mod, err := d.Normalize(doc[models.FieldModDate], ModificationLayout)
	if err != nil {
		return &DateError{Field: models.FieldModDate, Value: doc[models.FieldModDate]}
	}

	delete(doc, models.FieldPubDate)
	delete(doc, models.FieldModDate)

	doc[models.FieldPublicationDate] = pub
	doc[models.FieldModificationDate] = mod

	return nil
}
