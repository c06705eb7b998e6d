package normalizer

import "contentpoller/internal/models"

// ArticleNormalizer rewrites an article's dates and sections.
type ArticleNormalizer struct {
	dates     *DateNormalizer
	sanitizer *TextSanitizer
}

// NewArticleNormalizer creates an article normalizer.
func NewArticleNormalizer(dates *DateNormalizer, sanitizer *TextSanitizer) *ArticleNormalizer {
	return &ArticleNormalizer{
		dates:     dates,
		sanitizer: sanitizer,
	}
}

// Normalize returns a rewritten copy of article. Media sections whose id is
// in mediaByID are merged with that media, the media winning on key
// collisions; unmatched media sections are kept as they are. Text sections
// have their markup stripped. Section order is preserved.
func (n *ArticleNormalizer) Normalize(article models.Document, mediaByID map[models.ArticleID]models.Document) (models.Document, error) {
	out := article.Clone()
	if err := n.dates.normalizeDates(out); err != nil {
		return nil, err
	}

	raw, ok := out[models.FieldSections].([]any)
	if !ok {
		return out, nil
	}

	sections := make([]any, len(raw))
	for i, s := range raw {
		sections[i] = n.rewriteSection(s, mediaByID)
	}

	out[models.FieldSections] = sections

	return out, nil
}

func (n *ArticleNormalizer) rewriteSection(s any, mediaByID map[models.ArticleID]models.Document) any {
	section, ok := asDocument(s)
	if !ok {
		return s
	}

	switch section.String(models.FieldType) {
	case models.SectionMedia:
		id, ok := section.ID()
		if !ok {
			return s
		}

		media, ok := mediaByID[id]
		if !ok {
			return s
		}

		merged := section.Clone()
		for k, v := range media {
			merged[k] = v
		}

		return map[string]any(merged)
	case models.SectionText:
		text, ok := section[models.FieldText].(string)
		if !ok {
			return s
		}

		stripped := section.Clone()
		stripped[models.FieldText] = n.sanitizer.Strip(text)

		return map[string]any(stripped)
	default:
		return s
	}
}

// ReferencedMedia returns the ids referenced by the media sections of article.
func ReferencedMedia(article models.Document) map[models.ArticleID]struct{} {
	refs := make(map[models.ArticleID]struct{})

	sections, _ := article.Sections()
	for _, section := range sections {
		if section == nil || section.String(models.FieldType) != models.SectionMedia {
			continue
		}

		if id, ok := section.ID(); ok {
			refs[id] = struct{}{}
		}
	}

	return refs
}

func asDocument(v any) (models.Document, bool) {
	switch d := v.(type) {
	case map[string]any:
		return models.Document(d), true
	case models.Document:
		return d, true
	}

	return nil, false
}
