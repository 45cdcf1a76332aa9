// Package iocontext provides injectable I/O streams via context for testability.
package iocontext

import (
	"context"
	"fmt"
	"io"
	"os"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer // stdout
	ErrOut io.Writer // stderr
	In     io.Reader // stdin
}

// DefaultIO returns the standard IO streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// InputIsTerminal reports whether In is an interactive terminal. Readers that
// are not files (buffers in tests, pipes wrapped by callers) are never terminals.
func (s *IO) InputIsTerminal() bool {
	f, ok := s.In.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ReadInput reads all of In, failing when it exceeds limit bytes.
func (s *IO) ReadInput(limit int64) (string, error) {
	if s.In == nil {
		return "", nil
	}
	data, err := io.ReadAll(io.LimitReader(s.In, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds maximum size of %d bytes", limit)
	}
	return string(data), nil
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from context, defaulting to standard streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
