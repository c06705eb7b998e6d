package crawler

import (
	"errors"
	"testing"

	"contentpoller/internal/config"
)

func TestNewEndpoints(t *testing.T) {
	e, err := NewEndpoints(config.EndpointsConfig{
		ListURL:   "http://host/list.json",
		DetailURL: "http://host/articles/{id}.json",
		MediaURL:  "http://host/media/{id}.json",
	})
	if err != nil {
		t.Fatalf("NewEndpoints returned unexpected error: %v", err)
	}

	if got := e.Detail("42"); got != "http://host/articles/42.json" {
		t.Errorf("Detail = %s", got)
	}

	if got := e.Media("42"); got != "http://host/media/42.json" {
		t.Errorf("Media = %s", got)
	}

	if got := e.Detail("a/b c"); got != "http://host/articles/a%2Fb%20c.json" {
		t.Errorf("Detail with unsafe id = %s", got)
	}
}

func TestNewEndpoints_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		cfg     config.EndpointsConfig
	}{
		{
			name:    "missing list",
			cfg:     config.EndpointsConfig{DetailURL: "{id}", MediaURL: "{id}"},
			wantErr: ErrMissingListURL,
		},
		{
			name:    "detail without placeholder",
			cfg:     config.EndpointsConfig{ListURL: "l", DetailURL: "d", MediaURL: "{id}"},
			wantErr: ErrMissingIDPattern,
		},
		{
			name:    "media without placeholder",
			cfg:     config.EndpointsConfig{ListURL: "l", DetailURL: "{id}", MediaURL: "m"},
			wantErr: ErrMissingIDPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEndpoints(tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewEndpoints error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
