package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Output: &buf, Level: "info", Format: FormatJSON})
	log.With("cycle", 3).Info("cycle complete", "produced", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec["msg"] != "cycle complete" {
		t.Errorf("msg = %v, want cycle complete", rec["msg"])
	}

	if rec["cycle"] != float64(3) {
		t.Errorf("cycle = %v, want 3", rec["cycle"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Output: &buf, Level: "warn"})
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}

	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestLogger_SetLevelAffectsChildren(t *testing.T) {
	var buf bytes.Buffer

	parent := New(Options{Output: &buf, Level: "error"})
	child := parent.With("component", "worker")

	child.Debug("before")
	parent.SetLevel("debug")
	child.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("debug record written before level change: %q", out)
	}

	if !strings.Contains(out, "after") {
		t.Errorf("debug record missing after level change: %q", out)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	if log.Enabled(slog.LevelWarn) {
		t.Error("Nop logger should not be enabled at warn")
	}

	log.Error("discarded")
}
