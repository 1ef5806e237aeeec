// Package outfmt renders command results as tables, JSON or JSON lines.
package outfmt

import (
	"context"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Mode is the output format selected with --output.
type Mode int

const (
	Text Mode = iota
	JSON
	JSONL // one compact value per line
)

func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	default:
		return "text"
	}
}

// ParseMode accepts text, json, jsonl and ndjson in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	}
	return Text, fmt.Errorf("invalid output format %q (use text, json or jsonl)", s)
}

// Options is everything the global output flags decide.
type Options struct {
	Mode    Mode
	Compact bool
	Query   *gojq.Query
}

// NewOptions parses the output mode and compiles the jq expression so both
// fail before any request is sent.
func NewOptions(mode, jq string, compact bool) (Options, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Options{}, err
	}
	opts := Options{Mode: m, Compact: compact}
	if jq != "" {
		if opts.Query, err = Compile(jq); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// Structured reports whether results are written as JSON rather than tables.
func (o Options) Structured() bool {
	return o.Mode == JSON || o.Mode == JSONL
}

type optionsKey struct{}

func WithOptions(ctx context.Context, o Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, o)
}

// FromContext returns the options stored in ctx; text output by default.
func FromContext(ctx context.Context) Options {
	o, _ := ctx.Value(optionsKey{}).(Options)
	return o
}

// IsJSON reports whether ctx asks for JSON or JSON lines.
func IsJSON(ctx context.Context) bool {
	return FromContext(ctx).Structured()
}
