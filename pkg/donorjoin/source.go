package donorjoin

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 1024 * 1024

// Source is a re-readable line-oriented dataset. Every Open returns an
// independent reader positioned at the header line.
type Source interface {
	Name() string
	Open(ctx context.Context) (Lines, error)
}

// Lines iterates over the lines of an opened Source.
type Lines interface {
	Scan() bool
	Text() string
	Err() error
	Close() error
}

// FileSource reads a dataset from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Open(ctx context.Context) (Lines, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.Path)
	if err != nil {
		return nil, &IOError{Source: s.Path, Op: "open", Err: err}
	}

	return newScannerLines(file), nil
}

// Size returns the file size in bytes, or 0 if it cannot be determined.
func (s FileSource) Size() int64 {
	info, err := os.Stat(s.Path)
	if err != nil {
		return 0
	}

	return info.Size()
}

// StringSource serves a dataset held in memory.
type StringSource struct {
	Label string
	Data  string
}

func (s StringSource) Name() string { return s.Label }

func (s StringSource) Open(ctx context.Context) (Lines, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return newScannerLines(io.NopCloser(strings.NewReader(s.Data))), nil
}

type scannerLines struct {
	*bufio.Scanner
	closer io.Closer
}

func newScannerLines(rc io.ReadCloser) *scannerLines {
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &scannerLines{Scanner: scanner, closer: rc}
}

func (l *scannerLines) Close() error {
	return l.closer.Close()
}

// reader tracks line numbers over an opened Source and turns read failures
// into *IOError values. The underlying Lines are closed as soon as ctx is
// done, which unblocks a Scan stuck in Read.
type reader struct {
	ctx    context.Context
	source string
	lines  Lines
	line   int
	stop   func() bool
}

func openReader(ctx context.Context, src Source) (*reader, error) {
	lines, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { _ = lines.Close() })

	return &reader{ctx: ctx, source: src.Name(), lines: lines, stop: stop}, nil
}

// header reads the first line and resolves names against it.
func (r *reader) header(names ...string) ([]int, error) {
	if !r.lines.Scan() {
		if err := r.err(); err != nil {
			return nil, err
		}
		return nil, &SchemaError{Source: r.source, Missing: names}
	}
	r.line++

	indices, err := ResolveHeader(r.lines.Text(), names...)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = r.source
		}
		return nil, err
	}

	return indices, nil
}

// next returns the next data line. Blank lines are returned too so the
// parsers reject them as short lines.
func (r *reader) next() (string, bool) {
	if !r.lines.Scan() {
		return "", false
	}
	r.line++

	return r.lines.Text(), true
}

// err reports why scanning stopped. Once ctx is done the context error wins.
func (r *reader) err() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if err := r.lines.Err(); err != nil {
		return &IOError{Source: r.source, Op: "read", Err: err}
	}

	return nil
}

// shapeError fills in the location of a parse failure. A line cut short by
// cancellation reports the context error instead.
func (r *reader) shapeError(err error) error {
	if ctxErr := r.ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var shape *LineShapeError
	if errors.As(err, &shape) {
		shape.Source = r.source
		shape.Line = r.line
	}

	return err
}

func (r *reader) close() {
	// A false stop means the cancellation hook already closed lines.
	if r.stop() {
		_ = r.lines.Close()
	}
}
