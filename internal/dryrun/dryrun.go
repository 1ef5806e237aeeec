// Package dryrun previews mutating requests instead of sending them.
package dryrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dnsimple/dnsimple-cli/internal/api"
)

type enabledKey struct{}

// Enable marks ctx as running under --dry-run.
func Enable(ctx context.Context, on bool) context.Context {
	return context.WithValue(ctx, enabledKey{}, on)
}

// Enabled reports whether ctx runs under --dry-run.
func Enabled(ctx context.Context) bool {
	on, _ := ctx.Value(enabledKey{}).(bool)
	return on
}

// Preview is a request that was built but not sent.
type Preview struct {
	Operation string          `json:"operation"`
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Query     string          `json:"query,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	Details   map[string]any  `json:"details,omitempty"`
	DryRun    bool            `json:"dry_run"`
}

// FromRequest describes req. Paths include the API version prefix so they
// can be pasted into curl against the base URL.
func FromRequest(operation string, req api.RequestDescriptor) *Preview {
	p := &Preview{
		Operation: operation,
		Method:    string(req.Method()),
		Path:      "/" + api.APIVersion + req.Path(),
		Query:     req.RawQuery(),
		DryRun:    true,
	}
	if req.HasBody() {
		p.Body = json.RawMessage(req.Body())
	}
	return p
}

// Target is the path with its query string, if any.
func (p *Preview) Target() string {
	if p.Query == "" {
		return p.Path
	}
	return p.Path + "?" + p.Query
}

// WriteText renders the preview for a terminal.
func (p *Preview) WriteText(w io.Writer) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Dry run: would %s\n", p.Operation)
	fmt.Fprintf(&b, "  %s %s\n", p.Method, p.Target())
	if len(p.Body) > 0 {
		var body bytes.Buffer
		if json.Indent(&body, p.Body, "    ", "  ") != nil {
			body.Reset()
			body.Write(p.Body)
		}
		fmt.Fprintf(&b, "  body:\n    %s\n", body.Bytes())
	}
	for _, k := range slices.Sorted(maps.Keys(p.Details)) {
		fmt.Fprintf(&b, "  %s: %v\n", k, p.Details[k])
	}
	b.WriteString("Nothing was sent.\n")
	_, err := w.Write(b.Bytes())
	return err
}
