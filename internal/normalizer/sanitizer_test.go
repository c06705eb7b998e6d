package normalizer

import (
	"testing"
	"testing/quick"
)

func TestTextSanitizer_Strip(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		in   string
		want string
	}{
		{"<b>hi</b>", "hi"},
		{"no tags", "no tags"},
		{"<p>Hello <a href=\"x\">world</a></p>", "Hello world"},
		{"a < b and c > d", "a  d"},
		{"<br/>line<br />", "line"},
		{"dangling <tag", "dangling <tag"},
		{"<multi\nline>", "<multi\nline>"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := s.Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	idempotent := func(x string) bool {
		once := s.Strip(x)

		return s.Strip(once) == once
	}

	if err := quick.Check(idempotent, nil); err != nil {
		t.Error(err)
	}

	for _, x := range []string{"<<b>>", "<a<b>c>", "x<y<z", "<>", "<<>>"} {
		if !idempotent(x) {
			t.Errorf("Strip not idempotent on %q", x)
		}
	}
}
