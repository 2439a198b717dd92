package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// MissingError lists every required environment variable that was unset.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "missing required env vars: " + strings.Join(e.Names, ", ")
}

// InvalidError is a variable whose value could not be parsed.
type InvalidError struct {
	Name  string
	Value string
	Err   error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid value for %s=%q: %s", e.Name, e.Value, e.Err)
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// Load reads configuration from the process environment, applies defaults
// and validates the result. Missing required variables and unparseable
// values are reported together, as a *MissingError and one *InvalidError
// per bad value joined with errors.Join.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with a custom variable lookup.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	l := loader{getenv: getenv}

	l.loadStruct(reflect.ValueOf(cfg).Elem())

	var errs []error
	if len(l.missing) > 0 {
		errs = append(errs, &MissingError{Names: l.missing})
	}
	for _, inv := range l.invalid {
		errs = append(errs, inv)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

type loader struct {
	getenv  func(string) string
	missing []string
	invalid []*InvalidError
}

// loadStruct populates struct fields recursively. Missing required values
// and unparseable values are collected rather than returned so they can
// all be reported at once.
func (l *loader) loadStruct(v reflect.Value) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			l.loadStruct(fieldVal)
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := strings.TrimSpace(l.getenv(envName))
		if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
			value = strings.TrimSpace(l.getenv(alt))
		}

		if value == "" {
			if field.Tag.Get("required") == "true" {
				l.missing = append(l.missing, envName)
				continue
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			l.invalid = append(l.invalid, &InvalidError{Name: envName, Value: value, Err: err})
		}
	}
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
