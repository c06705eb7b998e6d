package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads ENV_FILE when set, otherwise .env.local then .env.
// Missing files are ignored.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}

		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}

	return nil
}

// ErrInvalidEnvValue is returned when an override variable cannot be parsed
// into its field.
var ErrInvalidEnvValue = errors.New("invalid environment override")

var durationType = reflect.TypeOf(time.Duration(0))

// applyEnvOverrides walks the config sections and sets every field whose
// `env` variable is non-empty.
func applyEnvOverrides(cfg *Config) error {
	return overrideSection(reflect.ValueOf(cfg).Elem())
}

func overrideSection(section reflect.Value) error {
	for i := range section.NumField() {
		field := section.Field(i)

		if field.Kind() == reflect.Struct {
			if err := overrideSection(field); err != nil {
				return err
			}

			continue
		}

		name := section.Type().Field(i).Tag.Get("env")
		if name == "" {
			continue
		}

		if raw := os.Getenv(name); raw != "" {
			if err := setField(field, raw); err != nil {
				return fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnvValue, name, raw, err)
			}
		}
	}

	return nil
}

// setField covers the field kinds the config uses: strings, ints,
// durations and bools.
func setField(field reflect.Value, raw string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}

		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}

		field.SetInt(int64(n))
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}

	return nil
}
