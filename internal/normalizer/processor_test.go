package normalizer

import (
	"errors"
	"testing"

	"contentpoller/internal/models"
)

const testURL = "http://example.com/articles/1.json"

func newTestProcessor() *Processor {
	return NewProcessorWithDates(NewDateNormalizerWithClock(fixedClock))
}

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := newTestProcessor()

	article := models.Document{
		"sections": []any{
			map[string]any{"type": "media", "id": "m1"},
			map[string]any{"type": "text", "text": "<p>Hi</p>"},
		},
		"pub_date": nil,
	}
	media := []models.Document{
		{"id": "m1", "pub_date": "2024-01-02-03;04;05"},
		{"id": "unreferenced", "pub_date": "garbage"},
		{"caption": "no id"},
	}

	result, err := p.Process("1", testURL, article, media)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if result.ID != "1" || result.URL() != testURL {
		t.Errorf("result = %s", result)
	}

	if result.PublicationDate() != "2025-06-01T12:00:00Z" {
		t.Errorf("publication_date = %s, want now", result.PublicationDate())
	}

	sections, _ := result.Fields.Sections()
	if sections[0]["publication_date"] != "2024-01-02T03:04:05Z" {
		t.Errorf("media section = %v, want merged media date", sections[0])
	}

	if sections[1]["text"] != "Hi" {
		t.Errorf("text = %v, want Hi", sections[1]["text"])
	}
}

func TestProcessor_MediaByID_FiltersUnreferenced(t *testing.T) {
	p := newTestProcessor()

	article := models.Document{"sections": []any{map[string]any{"type": "media", "id": "m2"}}}
	media := []models.Document{{"id": "m1"}, {"id": "m2"}}

	byID, err := p.MediaByID(article, media)
	if err != nil {
		t.Fatalf("MediaByID returned unexpected error: %v", err)
	}

	if len(byID) != 1 {
		t.Fatalf("len(byID) = %d, want 1", len(byID))
	}

	if _, ok := byID["m2"]; !ok {
		t.Errorf("byID = %v, want m2", byID)
	}
}

func TestProcessor_Process_MalformedMediaDate(t *testing.T) {
	p := newTestProcessor()

	article := models.Document{"sections": []any{map[string]any{"type": "media", "id": "m1"}}}
	media := []models.Document{{"id": "m1", "mod_date": "2024-01-02-03;04;05"}}

	_, err := p.Process("1", testURL, article, media)

	var failure *models.ArticleError
	if !errors.As(err, &failure) {
		t.Fatalf("Process error = %v, want *models.ArticleError", err)
	}

	if failure.Kind != models.KindMalformedDate {
		t.Errorf("Kind = %s, want malformed_date", failure.Kind)
	}

	if len(failure.Fields) != 1 || failure.Fields[0].Path != "media[m1].mod_date" {
		t.Errorf("Fields = %v, want media[m1].mod_date", failure.Fields)
	}

	if !errors.Is(err, ErrMalformedDate) {
		t.Error("failure should unwrap to ErrMalformedDate")
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := newTestProcessor()

	article := models.Document{"sections": []any{map[string]any{"type": "text"}}}

	result, err := p.Process("9", testURL, article, nil)
	if result != nil {
		t.Error("Process expected nil result for invalid input")
	}

	var failure *models.ArticleError
	if !errors.As(err, &failure) {
		t.Fatalf("Process error = %v, want *models.ArticleError", err)
	}

	if failure.Kind != models.KindValidation || failure.ArticleID != "9" {
		t.Errorf("failure = %+v", failure)
	}

	if len(failure.Fields) == 0 {
		t.Error("validation failure should carry field errors")
	}
}
