// Package outfmt selects and writes command output: human-readable text,
// JSON or YAML, optionally filtered by a jq expression.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/beaconpush/beaconpush-go/internal/filter"
)

// Mode represents the output format mode
type Mode int

const (
	// Text is the default human-readable output
	Text Mode = iota
	// JSON outputs structured JSON
	JSON
	// JSONL outputs one compact JSON value per line
	JSONL
	// YAML outputs the JSON document rendered as YAML
	YAML
)

type (
	modeKey    struct{}
	compactKey struct{}
	queryKey   struct{}
)

// Parse parses an output mode string
func Parse(s string) (Mode, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return Text, fmt.Errorf("invalid output format: %q (use text, json, jsonl or yaml)", s)
	}
}

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	case YAML:
		return "yaml"
	default:
		return "text"
	}
}

// WithMode adds the output mode to the context
func WithMode(ctx context.Context, mode Mode) context.Context {
	return context.WithValue(ctx, modeKey{}, mode)
}

// ModeFromContext retrieves the output mode from context
func ModeFromContext(ctx context.Context) Mode {
	if mode, ok := ctx.Value(modeKey{}).(Mode); ok {
		return mode
	}
	return Text
}

// IsJSON returns true for both JSON and JSONL output.
func IsJSON(ctx context.Context) bool {
	mode := ModeFromContext(ctx)
	return mode == JSON || mode == JSONL
}

// IsStructured returns true for every machine-readable mode.
func IsStructured(ctx context.Context) bool {
	return IsJSON(ctx) || ModeFromContext(ctx) == YAML
}

// WithCompact adds the compact flag to the context
func WithCompact(ctx context.Context, compact bool) context.Context {
	return context.WithValue(ctx, compactKey{}, compact)
}

// IsCompact returns true if compact output mode is set in the context
func IsCompact(ctx context.Context) bool {
	if c, ok := ctx.Value(compactKey{}).(bool); ok {
		return c
	}
	return false
}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WriteJSON writes v according to the context: filtered by the jq query when
// one is set, one element per line in JSONL mode, as YAML in YAML mode and
// indented unless compact otherwise.
func WriteJSON(ctx context.Context, w io.Writer, v any) error {
	if query := GetQuery(ctx); query != "" {
		filtered, err := filter.ApplyJSON(v, query)
		if err != nil {
			return err
		}
		v = filtered
	}

	switch ModeFromContext(ctx) {
	case JSONL:
		return writeLines(w, v)
	case YAML:
		return writeYAML(w, v)
	}

	enc := json.NewEncoder(w)
	if !IsCompact(ctx) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeLines(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return enc.Encode(v)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := enc.Encode(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// writeYAML goes through the generic JSON form so keys follow json tags.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
