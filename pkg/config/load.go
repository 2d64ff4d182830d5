package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseError reports a serialized configuration file whose content is not a
// flat mapping of string keys to scalar values.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Err is the underlying decode error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config file %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FromFile constructs a Manager from a serialized flat key-value document.
// The format follows the extension: .yaml/.yml is decoded with yaml.v3,
// anything else as JSON.
//
// A missing or unreadable file returns a wrapped filesystem error; malformed
// content returns a *ParseError. Both are recoverable by the caller, unlike
// the fatal *AuthError.
func FromFile(path string, opts ...Option) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	base, err := parseFlatMapping(path, data)
	if err != nil {
		return nil, err
	}
	return New(base, opts...)
}

// ReadMapping reads and decodes a serialized flat key-value document
// without running the resolution pipeline. Used for patch files and for
// registry construction, where the mapping is the base input rather than a
// complete configuration.
func ReadMapping(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	return parseFlatMapping(path, data)
}

// parseFlatMapping decodes data into a flat string-to-string mapping.
// Scalars are stringified (booleans to "true"/"false", numbers to their
// literal form); explicit nulls are dropped, matching the "absent" value
// semantics of nullable keys. Nested objects or arrays are a parse error.
func parseFlatMapping(path string, data []byte) (map[string]string, error) {
	var raw map[string]any
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	base := make(map[string]string, len(raw))
	for key, v := range raw {
		switch value := v.(type) {
		case nil:
			// Explicit null means "not configured".
		case string:
			base[key] = value
		case bool:
			base[key] = strconv.FormatBool(value)
		case int:
			base[key] = strconv.Itoa(value)
		case int64:
			base[key] = strconv.FormatInt(value, 10)
		case float64:
			base[key] = strconv.FormatFloat(value, 'f', -1, 64)
		case json.Number:
			base[key] = value.String()
		default:
			return nil, &ParseError{
				Path: path,
				Err:  fmt.Errorf("key %q: expected a scalar value, got %T", key, v),
			}
		}
	}
	return base, nil
}
