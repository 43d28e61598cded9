// Package preproc implements the topology format's conditional-compilation
// preprocessor as an event stream rather than the fseek-and-reparse idiom
// used by prior implementations. It consumes raw lines from lineio.Source
// frames (one per included file) and emits a flattened sequence of
// SectionHeader / Record / EOF events, having already applied #define,
// #ifdef, #ifndef, #else, #endif and #include.
//
// This is the "iterator sandwich" described as the robust rewrite of the
// fseek-back re-entry pattern: the section dispatcher built on top never
// sees a directive line or an inactive line, and never has to know that an
// include happened at all.
package preproc

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/openmd/gmxtop/internal/diag"
	"github.com/openmd/gmxtop/internal/gmxlex"
	"github.com/openmd/gmxtop/internal/lineio"
)

const component = "preproc"

// Limits from the format's conditional-compilation and include model.
const (
	MaxIncludeDepth = 100
	MaxIfdefDepth   = 20
	MaxDefines      = 100
)

// Sentinel errors for malformed conditional-compilation structure: all four
// are fatal and propagate to the top-level open, wrapped with the file and
// line where they were detected (errors.Is still matches them).
var (
	ErrUnmatchedEndif       = errors.New("preproc: #endif without matching #ifdef/#ifndef")
	ErrUnmatchedElse        = errors.New("preproc: #else without matching #ifdef/#ifndef")
	ErrIncludeDepthExceeded = errors.New("preproc: #include nesting too deep")
	ErrIfdefDepthExceeded   = errors.New("preproc: #ifdef/#ifndef nesting too deep")
)

// EventKind identifies the shape of an Event.
type EventKind int

const (
	// EventRecord carries one active, comment-stripped, non-empty body line.
	EventRecord EventKind = iota
	// EventSection carries a section header's name.
	EventSection
	// EventEOF signals that every open file (the primary file and all of
	// its transitive includes) has been fully consumed.
	EventEOF
)

// Event is one unit handed to the section dispatcher.
type Event struct {
	Kind    EventKind
	Section string // valid when Kind == EventSection
	Line    string // valid when Kind == EventRecord; comment-stripped
	File    string
	LineNo  int
}

// Preprocessor drives the directive state machine across a primary file and
// all the files it transitively includes.
type Preprocessor struct {
	defines   map[string]bool
	condStack []bool
	frames    []*frame
}

type frame struct {
	src        *lineio.Source
	condAtOpen int
}

// Open starts a Preprocessor at the given primary topology file.
func Open(path string) (*Preprocessor, error) {
	src, err := lineio.Open(path)
	if err != nil {
		return nil, err
	}
	p := &Preprocessor{defines: make(map[string]bool)}
	p.frames = []*frame{{src: src, condAtOpen: 0}}
	return p, nil
}

// Close releases every still-open file handle (used on error paths that
// abandon a parse before reaching EOF).
func (p *Preprocessor) Close() {
	for _, f := range p.frames {
		f.src.Close()
	}
	p.frames = nil
}

// active reports whether the conditional stack currently permits emission of
// section headers and record lines.
func (p *Preprocessor) active() bool {
	for _, b := range p.condStack {
		if !b {
			return false
		}
	}
	return true
}

func (p *Preprocessor) top() *frame { return p.frames[len(p.frames)-1] }

// Next pulls the next effective event out of the flattened line stream.
func (p *Preprocessor) Next() (Event, error) {
	for {
		if len(p.frames) == 0 {
			return Event{Kind: EventEOF}, nil
		}

		f := p.top()
		line, ok, err := f.src.Next()
		if err != nil {
			return Event{}, err
		}
		if !ok {
			if len(p.condStack) > f.condAtOpen {
				diag.For(component).Warnf("%d unmatched #ifdef directive(s) in file %s",
					len(p.condStack)-f.condAtOpen, f.src.Path())
			}
			f.src.Close()
			p.frames = p.frames[:len(p.frames)-1]
			continue
		}

		raw := line.Text
		if gmxlex.IsDirective(raw) {
			ev, consumed, err := p.handleDirective(f, gmxlex.StripComment(raw), line.Number)
			if err != nil {
				return Event{}, err
			}
			if consumed {
				continue
			}
			return ev, nil
		}

		if !p.active() {
			continue
		}

		body := gmxlex.StripComment(raw)
		if body == "" {
			continue
		}

		if name, ok := gmxlex.IsSectionHeader(body); ok {
			return Event{Kind: EventSection, Section: name, File: f.src.Path(), LineNo: line.Number}, nil
		}

		return Event{Kind: EventRecord, Line: body, File: f.src.Path(), LineNo: line.Number}, nil
	}
}

// handleDirective processes one directive line. consumed is true when the
// caller should keep looping (the directive produced no dispatcher-visible
// event); it is always true today since #include can only ever recurse into
// more lines, never yield an event of its own.
func (p *Preprocessor) handleDirective(f *frame, stripped string, lineNo int) (ev Event, consumed bool, err error) {
	fields := strings.Fields(stripped)
	if len(fields) == 0 {
		return Event{}, true, nil
	}

	switch fields[0] {
	case "#ifdef", "#ifndef":
		// Pushed unconditionally, even while already inactive, so a nested
		// #ifdef inside a false branch is still popped by its own #endif.
		if len(p.condStack) >= MaxIfdefDepth {
			return Event{}, true, errors.Wrapf(ErrIfdefDepthExceeded, "max depth %d, at %s:%d",
				MaxIfdefDepth, f.src.Path(), lineNo)
		}
		if len(fields) < 2 {
			return Event{}, true, nil
		}
		sym := fields[1]
		cond := p.defines[sym]
		if fields[0] == "#ifndef" {
			cond = !cond
		}
		p.condStack = append(p.condStack, cond)
		diag.For(component).Debugf("%s %s -> %s", fields[0], sym, activeWord(cond))
		return Event{}, true, nil

	case "#else":
		if len(p.condStack) == 0 {
			return Event{}, true, errors.Wrapf(ErrUnmatchedElse, "at %s:%d", f.src.Path(), lineNo)
		}
		top := len(p.condStack) - 1
		p.condStack[top] = !p.condStack[top]
		diag.For(component).Debugf("#else -> %s", activeWord(p.condStack[top]))
		return Event{}, true, nil

	case "#endif":
		if len(p.condStack) == 0 {
			return Event{}, true, errors.Wrapf(ErrUnmatchedEndif, "at %s:%d", f.src.Path(), lineNo)
		}
		p.condStack = p.condStack[:len(p.condStack)-1]
		diag.For(component).Debugf("#endif (depth now %d)", len(p.condStack))
		return Event{}, true, nil

	case "#define":
		// Unlike #include, a #define takes effect even inside a currently
		// inactive conditional block: the symbol table is global to the
		// whole parse, so there is no "scope" for a skipped #define to be
		// local to, and later code may depend on the symbol regardless of
		// which branch happened to define it.
		if len(fields) < 2 {
			return Event{}, true, nil
		}
		p.define(fields[1])
		return Event{}, true, nil

	case "#include":
		if !p.active() {
			return Event{}, true, nil
		}
		path, ok := parseIncludePath(stripped)
		if !ok {
			return Event{}, true, nil
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(f.src.Path()), path)
		}
		// Nesting depth is the number of include frames currently open
		// above the primary file (frames[0]); it naturally shrinks again
		// as included files reach EOF and are popped in Next.
		if len(p.frames)-1 >= MaxIncludeDepth {
			return Event{}, true, errors.Wrapf(ErrIncludeDepthExceeded, "max depth %d, at %s:%d",
				MaxIncludeDepth, f.src.Path(), lineNo)
		}
		child, err := lineio.Open(path)
		if err != nil {
			return Event{}, true, errors.Wrapf(err, "preproc: #include at %s:%d", f.src.Path(), lineNo)
		}
		p.frames = append(p.frames, &frame{src: child, condAtOpen: len(p.condStack)})
		return Event{}, true, nil

	default:
		// Unrecognized directive: not part of the contract, ignored.
		return Event{}, true, nil
	}
}

func (p *Preprocessor) define(sym string) {
	if p.defines[sym] {
		return // redefinition is a silent no-op
	}
	if len(p.defines) >= MaxDefines {
		diag.For(component).Warnf("maximum number of #define symbols (%d) exceeded, dropping %q", MaxDefines, sym)
		return
	}
	p.defines[sym] = true
	diag.For(component).Debugf("defined symbol: %s", sym)
}

func activeWord(b bool) string {
	if b {
		return "true (processing)"
	}
	return "false (skipping)"
}

// parseIncludePath extracts the quoted filename from a #include line,
// accepting either '"' or '\'' as the quote character.
func parseIncludePath(line string) (string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	if rest == "" {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}
