package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIDFromValue(t *testing.T) {
	tests := []struct {
		value  any
		name   string
		want   ArticleID
		wantOK bool
	}{
		{name: "string", value: "m1", want: "m1", wantOK: true},
		{name: "float", value: float64(12), want: "12", wantOK: true},
		{name: "json number", value: json.Number("7"), want: "7", wantOK: true},
		{name: "int", value: 3, want: "3", wantOK: true},
		{name: "empty string", value: ""},
		{name: "zero", value: float64(0)},
		{name: "zero number", value: json.Number("0")},
		{name: "nil", value: nil},
		{name: "bool", value: true},
		{name: "object", value: map[string]any{"id": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IDFromValue(tt.value)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("IDFromValue(%v) = (%q, %t), want (%q, %t)", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDocument_Clone(t *testing.T) {
	doc := Document{"a": 1}
	clone := doc.Clone()
	clone["a"] = 2
	clone["b"] = 3

	if doc["a"] != 1 || len(doc) != 1 {
		t.Errorf("Clone shares storage with original: %v", doc)
	}
}

func TestDocument_Sections(t *testing.T) {
	doc := Document{"sections": []any{map[string]any{"type": "text"}, "not an object"}}

	sections, ok := doc.Sections()
	if !ok || len(sections) != 2 {
		t.Fatalf("Sections() = %v, %t", sections, ok)
	}

	if sections[0].String(FieldType) != "text" {
		t.Errorf("sections[0] = %v", sections[0])
	}

	if sections[1] != nil {
		t.Errorf("sections[1] = %v, want nil for a non-object entry", sections[1])
	}

	if _, ok := (Document{"sections": "x"}).Sections(); ok {
		t.Error("Sections() reported ok for a non-array value")
	}
}

func TestArticle_MarshalJSON(t *testing.T) {
	article := &Article{ID: "1", Fields: Document{"url": "http://example.com/1.json"}}

	data, err := json.Marshal(article)
	if err != nil {
		t.Fatalf("Marshal returned unexpected error: %v", err)
	}

	if string(data) != `{"url":"http://example.com/1.json"}` {
		t.Errorf("Marshal = %s", data)
	}

	if got := article.String(); got != "Article{id=1, url=http://example.com/1.json}" {
		t.Errorf("String() = %s", got)
	}
}

func TestArticleError(t *testing.T) {
	cause := errors.New("boom")
	err := &ArticleError{
		ArticleID: "9",
		Kind:      KindValidation,
		Fields: []FieldError{
			{Path: "url", Message: "field required"},
			{Path: "sections[0].text", Message: "field required"},
		},
		Err: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("ArticleError does not unwrap to its cause")
	}

	msg := err.Error()
	for _, want := range []string{"article 9", "validation", "url: field required", "sections[0].text"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	paths := err.Paths()
	if len(paths) != 2 || paths[0] != "url" || paths[1] != "sections[0].text" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestCycleReport(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	report := &CycleReport{StartedAt: start}
	if report.Duration() != 0 {
		t.Errorf("Duration of an unfinished cycle = %v, want 0", report.Duration())
	}

	report.FinishedAt = start.Add(3 * time.Second)
	if report.Duration() != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", report.Duration())
	}

	report.Failures = []*ArticleError{{Kind: KindDecode}, {Kind: KindDecode}, {Kind: KindTransport}}

	counts := report.FailuresByKind()
	if counts[KindDecode] != 2 || counts[KindTransport] != 1 {
		t.Errorf("FailuresByKind = %v", counts)
	}

	if report.Aborted() {
		t.Error("report without error reported aborted")
	}

	report.Err = errors.New("list unavailable")
	if !report.Aborted() {
		t.Error("report with error not reported aborted")
	}
}
