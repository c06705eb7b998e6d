package models

import (
	"fmt"
	"strings"
)

// FailureKind classifies why a single article was not produced.
type FailureKind string

// Failure kinds.
const (
	KindTransport     FailureKind = "transport"
	KindDecode        FailureKind = "decode"
	KindMalformedDate FailureKind = "malformed_date"
	KindValidation    FailureKind = "validation"
)

// FieldError is one structured schema violation.
type FieldError struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ArticleError reports the failure of one article within a cycle.
type ArticleError struct {
	Err       error        `json:"-"`
	ArticleID ArticleID    `json:"article_id"`
	URL       string       `json:"url"`
	Kind      FailureKind  `json:"kind"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// Error implements error.
func (e *ArticleError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "article %s: %s", e.ArticleID, e.Kind)

	if len(e.Fields) > 0 {
		paths := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			paths[i] = f.String()
		}

		fmt.Fprintf(&sb, " [%s]", strings.Join(paths, "; "))
	}

	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *ArticleError) Unwrap() error {
	return e.Err
}

// Paths returns the field paths involved in the failure.
func (e *ArticleError) Paths() []string {
	paths := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		paths[i] = f.Path
	}

	return paths
}
