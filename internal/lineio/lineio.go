// Package lineio streams physical lines out of a topology file: a single
// file at a time, bounded to a fixed maximum record length, with the
// ability to push the most recently read line back so a caller higher up
// the stack can re-examine it.
//
// A *bufio.Reader already gives cheap byte-granular lookahead (Peek)
// without a real seek; Source adapts the same idea one level up, to whole
// lines, so a caller can "unread" an entire line rather than a handful of
// bytes.
package lineio

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MaxRecordLength is the maximum number of characters kept from any one
// physical line. Longer lines are truncated at this boundary; there is no
// line-continuation syntax in this format.
const MaxRecordLength = 512

// Line is one physical line read from a Source, with its 1-based line
// number within that source's file.
type Line struct {
	Text   string
	Number int
}

// Source streams physical lines from a single file.
type Source struct {
	path    string
	f       *os.File
	r       *bufio.Reader
	lineNo  int
	pending *Line
	closed  bool
}

// Open opens path and returns a Source positioned at its first line.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "lineio: open %q", path)
	}
	return &Source{path: path, f: f, r: bufio.NewReader(f)}, nil
}

// Path returns the file path this Source was opened from.
func (s *Source) Path() string { return s.path }

// Next returns the next line, or ok=false at end of file. A previously
// Unread line is replayed before any further reads occur.
func (s *Source) Next() (line Line, ok bool, err error) {
	if s.pending != nil {
		line, s.pending = *s.pending, nil
		return line, true, nil
	}

	raw, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return Line{}, false, errors.Wrapf(err, "lineio: read %q", s.path)
	}
	if raw == "" && err == io.EOF {
		return Line{}, false, nil
	}

	for len(raw) > 0 && (raw[len(raw)-1] == '\n' || raw[len(raw)-1] == '\r') {
		raw = raw[:len(raw)-1]
	}
	if len(raw) > MaxRecordLength {
		raw = raw[:MaxRecordLength]
	}

	s.lineNo++
	return Line{Text: raw, Number: s.lineNo}, true, nil
}

// Unread pushes line back so the next call to Next returns it again. Only
// one line of pushback is supported at a time; a second Unread before the
// next Next replaces the first. The preprocessor in this module reads
// lines strictly forward and does not call Unread.
func (s *Source) Unread(line Line) {
	s.pending = &line
}

// Close releases the underlying file handle. Safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
