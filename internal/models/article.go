// Package models defines the records that flow through one polling cycle.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Field names shared by the source records and the canonical article.
const (
	FieldID               = "id"
	FieldType             = "type"
	FieldText             = "text"
	FieldURL              = "url"
	FieldSections         = "sections"
	FieldPubDate          = "pub_date"
	FieldModDate          = "mod_date"
	FieldPublicationDate  = "publication_date"
	FieldModificationDate = "modification_date"
)

// Section types understood by the normalizer. Any other type passes through.
const (
	SectionMedia = "media"
	SectionText  = "text"
)

// ArticleID identifies an article or a media record within one list snapshot.
type ArticleID string

// IDFromValue renders a decoded JSON id (string or number) as an ArticleID.
// It reports false for values that carry no usable id.
func IDFromValue(v any) (ArticleID, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}

		return ArticleID(id), true
	case float64:
		if id == 0 {
			return "", false
		}

		return ArticleID(strconv.FormatFloat(id, 'f', -1, 64)), true
	case json.Number:
		if id == "" || id == "0" {
			return "", false
		}

		return ArticleID(id.String()), true
	case int:
		if id == 0 {
			return "", false
		}

		return ArticleID(strconv.Itoa(id)), true
	}

	return "", false
}

// Document is a decoded JSON object. Source records keep every field they
// arrive with; normalization only rewrites the fields it owns.
type Document map[string]any

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}

	return out
}

// String returns the string value of key, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)

	return s
}

// ID returns the document's id field as an ArticleID.
func (d Document) ID() (ArticleID, bool) {
	return IDFromValue(d[FieldID])
}

// Sections returns the document's sections as documents. Entries that are
// not JSON objects are returned as nil so positions are preserved.
func (d Document) Sections() ([]Document, bool) {
	raw, ok := d[FieldSections].([]any)
	if !ok {
		return nil, false
	}

	sections := make([]Document, len(raw))

	for i, s := range raw {
		switch sec := s.(type) {
		case map[string]any:
			sections[i] = Document(sec)
		case Document:
			sections[i] = sec
		}
	}

	return sections, true
}

// Article is a normalized article that passed schema validation.
type Article struct {
	Fields Document
	ID     ArticleID
}

// URL returns the detail endpoint the article was fetched from.
func (a *Article) URL() string {
	return a.Fields.String(FieldURL)
}

// PublicationDate returns the normalized publication date.
func (a *Article) PublicationDate() string {
	return a.Fields.String(FieldPublicationDate)
}

// ModificationDate returns the normalized modification date.
func (a *Article) ModificationDate() string {
	return a.Fields.String(FieldModificationDate)
}

// MarshalJSON encodes the article as its canonical document.
func (a *Article) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Fields)
}

// String returns a short description for logs.
func (a *Article) String() string {
	var sb strings.Builder

	sb.WriteString("Article{id=")
	sb.WriteString(string(a.ID))
	sb.WriteString(", url=")
	sb.WriteString(a.URL())
	sb.WriteString("}")

	return sb.String()
}
