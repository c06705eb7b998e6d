package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"contentpoller/internal/models"
)

var start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestFormatTable(t *testing.T) {
	lines := FormatTable([]string{"A", "Name"}, [][]string{
		{"1", "x"},
		{"22", "火災"},
	})

	want := []string{
		"| A   | Name |",
		"| --- | ---- |",
		"| 1   | x    |",
		"| 22  | 火災 |",
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}

	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTable_ShortRows(t *testing.T) {
	lines := FormatTable([]string{"A", "B"}, [][]string{{"only"}})

	if got, want := lines[2], "| only |     |"; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
}

func TestFormatReport(t *testing.T) {
	report := &models.CycleReport{
		Index:      3,
		RunID:      uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		ListURL:    "http://source.test/list.json",
		Dispatched: 2,
		Produced:   []models.ArticleID{"1"},
		Failures: []*models.ArticleError{{
			ArticleID: "2",
			Kind:      models.KindValidation,
			Fields:    []models.FieldError{{Path: "sections[0].text", Rule: "required_for_text"}},
			Err:       errors.New("schema\nrejected"),
		}},
	}

	out := FormatReport(report)

	for _, want := range []string{
		"Cycle 3 (run 00000000-0000-0000-0000-000000000001): ok in 1.5s",
		"List: http://source.test/list.json",
		"Dispatched: 2  Produced: 1  Failed: 1  Sink errors: 0",
		"| Article | Outcome  | Kind       | Fields           | Detail          |",
		"| 1       | produced |            |                  |                 |",
		"| 2       | failed   | validation | sections[0].text | schema rejected |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReport_Aborted(t *testing.T) {
	out := FormatReport(&models.CycleReport{
		Index:      0,
		StartedAt:  start,
		FinishedAt: start,
		Err:        errors.New("fetch article list: transport error"),
	})

	if !strings.Contains(out, ": aborted in 0s") {
		t.Errorf("report = %q, want aborted status", out)
	}

	if !strings.Contains(out, "Error: fetch article list: transport error") {
		t.Errorf("report = %q, want error line", out)
	}

	if strings.Contains(out, "| Article") {
		t.Errorf("aborted report should not render a table:\n%s", out)
	}
}

func TestCell(t *testing.T) {
	long := strings.Repeat("a", maxCellWidth+10)

	if got := cell(long); got != strings.Repeat("a", maxCellWidth)+"..." {
		t.Errorf("cell(long) = %q", got)
	}

	if got := cell("a\n  b\tc"); got != "a b c" {
		t.Errorf("cell = %q, want %q", got, "a b c")
	}
}
