package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"contentpoller/internal/models"
)

// ErrValidation is returned when a normalized article violates the canonical schema.
var ErrValidation = errors.New("article failed schema validation")

// ValidationError carries the structured field errors of a rejected article.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}

	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// articleSchema is the canonical article shape. Fields not listed here are
// allowed and passed through.
type articleSchema struct {
	URL              string          `json:"url"               validate:"required,url"`
	PublicationDate  string          `json:"publication_date"  validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ModificationDate string          `json:"modification_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Sections         []sectionSchema `json:"sections"          validate:"required,dive"`
}

type sectionSchema struct {
	Text *string  `json:"text"`
	Type string   `json:"type" validate:"required"`
	ID   schemaID `json:"id"`
}

// schemaID accepts string and numeric ids. Any other JSON value decodes to "".
type schemaID string

func (id *schemaID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*id = schemaID(s)
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*id = schemaID(data)
	}

	return nil
}

// Validator checks normalized articles against the canonical schema.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	v.RegisterStructValidation(validateSection, sectionSchema{})

	return &Validator{validate: v}
}

func validateSection(sl validator.StructLevel) {
	section, ok := sl.Current().Interface().(sectionSchema)
	if !ok {
		return
	}

	switch section.Type {
	case models.SectionText:
		if section.Text == nil {
			sl.ReportError(section.Text, models.FieldText, "Text", "required_for_text", "")
		}
	case models.SectionMedia:
		if section.ID == "" {
			sl.ReportError(section.ID, models.FieldID, "ID", "required_for_media", "")
		}
	}
}

// Validate checks doc against the canonical schema and returns a
// *ValidationError listing every violation.
func (v *Validator) Validate(doc models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}

	d := &schemaDecoder{seen: make(map[string]bool)}

	schema, err := d.article(data)
	if err != nil {
		return err
	}

	if err := v.validate.Struct(schema); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("failed to validate article: %w", err)
		}

		for _, fe := range errs {
			path := trimRoot(fe.Namespace())
			if d.covered(path) {
				continue
			}

			d.add(path, fe.Tag(), describe(fe))
		}
	}

	if len(d.fields) > 0 {
		return &ValidationError{Fields: d.fields}
	}

	return nil
}

// schemaDecoder fills an articleSchema one field at a time so every type
// mismatch is reported with its own path. A mistyped field is left zero and
// the later rule error on the same path is dropped.
type schemaDecoder struct {
	seen   map[string]bool
	fields []models.FieldError
}

func (d *schemaDecoder) add(path, rule, message string) {
	if d.seen[path] {
		return
	}

	d.seen[path] = true
	d.fields = append(d.fields, models.FieldError{Path: path, Rule: rule, Message: message})
}

// covered reports whether a type error was recorded for an enclosing path,
// in which case rule errors below it only describe the zero value.
func (d *schemaDecoder) covered(path string) bool {
	for i := range len(path) {
		if (path[i] == '.' || path[i] == '[') && d.seen[path[:i]] {
			return true
		}
	}

	return false
}

func (d *schemaDecoder) article(data []byte) (articleSchema, error) {
	var schema articleSchema

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return schema, fmt.Errorf("failed to decode article: %w", err)
	}

	for _, f := range []struct {
		dst  any
		key  string
		want string
	}{
		{&schema.URL, models.FieldURL, "string"},
		{&schema.PublicationDate, models.FieldPublicationDate, "string"},
		{&schema.ModificationDate, models.FieldModificationDate, "string"},
	} {
		if err := d.field(raw, f.key, f.key, f.want, f.dst); err != nil {
			return schema, err
		}
	}

	var sections []json.RawMessage
	if err := d.field(raw, models.FieldSections, models.FieldSections, "array", &sections); err != nil {
		return schema, err
	}

	if sections == nil {
		return schema, nil
	}

	schema.Sections = make([]sectionSchema, len(sections))

	for i, section := range sections {
		path := fmt.Sprintf("%s[%d]", models.FieldSections, i)
		if err := d.section(section, path, &schema.Sections[i]); err != nil {
			return schema, err
		}
	}

	return schema, nil
}

func (d *schemaDecoder) section(data json.RawMessage, path string, dst *sectionSchema) error {
	var raw map[string]json.RawMessage
	if err := d.value(data, path, "object", &raw); err != nil {
		return err
	}

	if err := d.field(raw, models.FieldType, path+"."+models.FieldType, "string", &dst.Type); err != nil {
		return err
	}

	if err := d.field(raw, models.FieldText, path+"."+models.FieldText, "string", &dst.Text); err != nil {
		return err
	}

	return d.field(raw, models.FieldID, path+"."+models.FieldID, "string or number", &dst.ID)
}

func (d *schemaDecoder) field(raw map[string]json.RawMessage, key, path, want string, dst any) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}

	return d.value(value, path, want, dst)
}

// value decodes data into dst, recording a type error at path. Only
// errors other than type mismatches are returned.
func (d *schemaDecoder) value(data json.RawMessage, path, want string, dst any) error {
	err := json.Unmarshal(data, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	d.add(path, "type", fmt.Sprintf("expected %s, got %s", want, typeErr.Value))

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_for_text", "required_for_media":
		return "field required"
	case "url":
		return "must be an absolute URL"
	case "datetime":
		return "must be an RFC 3339 timestamp"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

// trimRoot drops the schema type name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}

	return ns
}
