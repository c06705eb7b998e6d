package normalizer

import "contentpoller/internal/models"

// MediaNormalizer rewrites the dates of a media record.
type MediaNormalizer struct {
	dates *DateNormalizer
}

// NewMediaNormalizer creates a media normalizer.
func NewMediaNormalizer(dates *DateNormalizer) *MediaNormalizer {
	return &MediaNormalizer{dates: dates}
}

// Normalize returns a copy of media with normalized dates. Other fields are
// passed through and media itself is left untouched.
func (m *MediaNormalizer) Normalize(media models.Document) (models.Document, error) {
	out := media.Clone()
	if err := m.dates.normalizeDates(out); err != nil {
		return nil, err
	}

	return out, nil
}
