// Package config parses the plugin configuration handed over by the host.
//
// The schema has exactly one field:
//
//	{ "atomNames": ["customAtom", "myFactory"] }
//
// Anything else (unknown fields, trailing data, malformed JSON) rejects the
// whole configuration. There is no fallback to defaults.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalid is wrapped by every configuration parse failure.
var ErrInvalid = errors.New("invalid plugin config")

// Config is the static plugin configuration.
type Config struct {
	// AtomNames are extra factory names honored regardless of where they come from.
	AtomNames []string `json:"atomNames"`
}

// Parse decodes a raw configuration string.
func Parse(raw string) (Config, error) {
	var cfg Config
	if bytes.Equal(bytes.TrimSpace([]byte(raw)), []byte("null")) {
		return Config{}, fmt.Errorf("%w: expected an object, got null", ErrInvalid)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: trailing data after object", ErrInvalid)
	}
	return cfg, nil
}

// String renders the configuration back to its JSON form.
func (c Config) String() string {
	names := c.AtomNames
	if names == nil {
		names = []string{}
	}
	b, _ := json.Marshal(Config{AtomNames: names})
	return string(b)
}
