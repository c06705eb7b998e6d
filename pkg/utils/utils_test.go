package utils

import "testing"

func TestBuildHeaders(t *testing.T) {
	h := NewHTTPHelper()

	headers := h.BuildHeaders(map[string]string{"User-Agent": "custom/2.0", "X-Empty": ""})

	if got := headers.Get("User-Agent"); got != "custom/2.0" {
		t.Errorf("User-Agent = %s, want custom/2.0", got)
	}

	if got := len(headers.Values("User-Agent")); got != 1 {
		t.Errorf("User-Agent has %d values, want 1", got)
	}

	if got := headers.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %s, want application/json", got)
	}

	if _, ok := headers["X-Empty"]; ok {
		t.Error("empty custom header should be skipped")
	}
}

func TestBuildHeaders_Defaults(t *testing.T) {
	headers := NewHTTPHelper().BuildHeaders(nil)

	if got := headers.Get("User-Agent"); got != DefaultUserAgent {
		t.Errorf("User-Agent = %s, want %s", got, DefaultUserAgent)
	}
}

func TestTruncateString(t *testing.T) {
	s := NewStringHelper()

	tests := []struct {
		in   string
		want string
		max  int
	}{
		{in: "short", max: 10, want: "short"},
		{in: "exactly10!", max: 10, want: "exactly10!"},
		{in: "this is too long", max: 7, want: "this is..."},
		{in: "日本語のテキスト", max: 3, want: "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := s.TruncateString(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	s := NewStringHelper()

	if got := s.NormalizeWhitespace("  a \n\t b  "); got != "a b" {
		t.Errorf("NormalizeWhitespace = %q, want %q", got, "a b")
	}
}
