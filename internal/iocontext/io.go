// Package iocontext carries the process streams through a context so commands
// can be run against buffers.
package iocontext

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Streams are the standard streams a command reads and writes.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// System returns the process streams as they are at call time, so tests that
// swap os.Stdout before running a command are honored.
func System() *Streams {
	return &Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

type streamsKey struct{}

// With returns a copy of ctx carrying s.
func With(ctx context.Context, s *Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// From returns the streams stored in ctx, or the process streams.
func From(ctx context.Context) *Streams {
	if s, ok := ctx.Value(streamsKey{}).(*Streams); ok && s != nil {
		return s
	}
	return System()
}

// ReadLine reads one line from Stdin with surrounding whitespace removed.
// A final line without a newline is accepted.
func (s *Streams) ReadLine() (string, error) {
	line, err := bufio.NewReader(s.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
