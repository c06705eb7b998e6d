// Package formatter renders cycle reports as aligned text tables.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"contentpoller/internal/models"
	"contentpoller/pkg/utils"
)

const (
	maxCellWidth = 60
	minCellWidth = 3
)

// Outcome column values.
const (
	OutcomeProduced = "produced"
	OutcomeFailed   = "failed"
)

var reportHeader = []string{"Article", "Outcome", "Kind", "Fields", "Detail"}

// FormatReport renders a summary line followed by one table row per article.
func FormatReport(report *models.CycleReport) string {
	var sb strings.Builder

	status := "ok"
	if report.Aborted() {
		status = "aborted"
	}

	fmt.Fprintf(&sb, "Cycle %d (run %s): %s in %v\n", report.Index, report.RunID, status, report.Duration().Round(time.Millisecond))

	if report.ListURL != "" {
		fmt.Fprintf(&sb, "List: %s\n", report.ListURL)
	}

	if report.Aborted() {
		fmt.Fprintf(&sb, "Error: %s\n", cell(report.Err.Error()))

		return sb.String()
	}

	fmt.Fprintf(&sb, "Dispatched: %d  Produced: %d  Failed: %d  Sink errors: %d\n",
		report.Dispatched, len(report.Produced), len(report.Failures), report.SinkErrors)

	if report.Dispatched == 0 && len(report.Produced) == 0 && len(report.Failures) == 0 {
		return sb.String()
	}

	rows := make([][]string, 0, len(report.Produced)+len(report.Failures))

	for _, id := range report.Produced {
		rows = append(rows, []string{string(id), OutcomeProduced, "", "", ""})
	}

	for _, f := range report.Failures {
		detail := ""
		if f.Err != nil {
			detail = f.Err.Error()
		}

		rows = append(rows, []string{
			string(f.ArticleID),
			OutcomeFailed,
			string(f.Kind),
			cell(strings.Join(f.Paths(), ", ")),
			cell(detail),
		})
	}

	sb.WriteString("\n")

	for _, line := range FormatTable(reportHeader, rows) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTable aligns header and rows into a pipe table using display width,
// so wide runes line up.
func FormatTable(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minCellWidth
	}

	for _, row := range append([][]string{header}, rows...) {
		for i, c := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(c))
		}
	}

	result := make([]string, 0, len(rows)+2)
	result = append(result, formatRow(header, colWidths))

	separator := make([]string, colCount)
	for i, w := range colWidths {
		separator[i] = strings.Repeat("-", w)
	}

	result = append(result, formatRow(separator, colWidths))

	for _, row := range rows {
		result = append(result, formatRow(row, colWidths))
	}

	return result
}

func formatRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

// cell flattens s onto one line and caps its length.
func cell(s string) string {
	helper := utils.NewStringHelper()

	return helper.TruncateString(helper.NormalizeWhitespace(s), maxCellWidth)
}
