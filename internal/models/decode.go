package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decoding errors.
var (
	ErrNotAnObject = errors.New("not a JSON object")
	ErrNotAnArray  = errors.New("not a JSON array")
)

// DecodeDocument decodes body as a single JSON object.
func DecodeDocument(body []byte) (Document, error) {
	var doc Document
	if err := decodeJSON(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnObject, err)
	}

	if doc == nil {
		return nil, ErrNotAnObject
	}

	return doc, nil
}

// DecodeMedia decodes a media collection. Entries that are not JSON objects
// are skipped; a body that is not an array is an error.
func DecodeMedia(body []byte) ([]Document, error) {
	var raw []any
	if err := decodeJSON(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnArray, err)
	}

	if raw == nil {
		return nil, ErrNotAnArray
	}

	media := make([]Document, 0, len(raw))

	for _, m := range raw {
		if doc, ok := m.(map[string]any); ok {
			media = append(media, Document(doc))
		}
	}

	return media, nil
}

// decodeJSON keeps numbers as json.Number so ids and pass-through values are
// not rounded through float64. Content after the first value is rejected.
func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected content after JSON value")
	}

	return nil
}
