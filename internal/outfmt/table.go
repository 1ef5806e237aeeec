package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter writes one command's results to its streams.
type Formatter struct {
	opts   Options
	out    io.Writer
	errOut io.Writer
}

func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{opts: FromContext(ctx), out: out, errOut: errOut}
}

// Structured reports whether the formatter writes JSON.
func (f *Formatter) Structured() bool {
	return f.opts.Structured()
}

// Output writes v as JSON or JSON lines. In text mode it does nothing and
// the caller renders a table.
func (f *Formatter) Output(v any) error {
	return Write(f.out, v, f.opts)
}

// Note writes an informational line to stderr so stdout stays parseable.
func (f *Formatter) Note(format string, args ...any) {
	_, _ = fmt.Fprintf(f.errOut, format+"\n", args...)
}

// Table starts a column-aligned table with the given header row.
func (f *Formatter) Table(headers ...string) *Table {
	t := &Table{tw: tabwriter.NewWriter(f.out, 0, 4, 2, ' ', 0)}
	t.Row(headers...)
	return t
}

// Table buffers rows until Flush aligns and writes them.
type Table struct {
	tw *tabwriter.Writer
}

func (t *Table) Row(cells ...string) {
	_, _ = fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *Table) Flush() error {
	return t.tw.Flush()
}
