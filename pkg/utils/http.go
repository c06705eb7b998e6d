// Package utils provides common utility functions.
package utils

import "net/http"

// DefaultUserAgent identifies the poller to content providers.
const DefaultUserAgent = "contentpoller/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// BuildHeaders creates JSON request headers. Non-empty custom values replace
// the defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", DefaultUserAgent)
	headers.Set("Accept", "application/json")

	for key, value := range customHeaders {
		if value == "" {
			continue
		}

		headers.Set(key, value)
	}

	return headers
}
