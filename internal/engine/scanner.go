package engine

import (
	"bytes"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

// boundary is the candidate statement terminator. Occurrences inside strings,
// templates, or comments are rejected by the analyzer, not by the scanner.
const boundary = ';'

// emitFunc receives each completed statement together with the analysis that
// proved it complete. Returning an error stops the scan.
type emitFunc func(stmt script.Statement, analysis ports.Analysis) error

// boundaryScanner consumes the input stream incrementally and decides, with
// the analyzer's grammar, when the buffered span forms a complete statement.
// One scanner exists per run; it owns the run's line accounting.
type boundaryScanner struct {
	analyzer ports.Analyzer

	buf     bytes.Buffer
	line    int  // current 1-based line of the byte being consumed
	start   int  // start line of the buffered statement
	started bool // buffer holds at least one significant byte
}

func newBoundaryScanner(analyzer ports.Analyzer) *boundaryScanner {
	return &boundaryScanner{analyzer: analyzer, line: 1, start: 1}
}

// feed appends one chunk, attempting a completeness check at every candidate
// boundary byte. Chunk granularity never changes the emitted statements: the
// scanner advances byte by byte regardless of how the stream was sliced.
// Both the terminator and the newline are single bytes in UTF-8, so byte-wise
// scanning is safe for multi-byte input.
func (s *boundaryScanner) feed(chunk []byte, emit emitFunc) error {
	for _, c := range chunk {
		if !s.started && !isSpace(c) {
			s.started = true
			s.start = s.line
		}
		s.buf.WriteByte(c)
		if c == '\n' {
			s.line++
			continue
		}
		if c != boundary {
			continue
		}

		text := script.Trim(s.buf.String())
		if text == "" {
			continue
		}
		analysis := s.analyzer.Analyze(text)
		if !analysis.Complete {
			// Terminator inside a string, comment, or nested construct.
			// Keep buffering until the next candidate boundary.
			continue
		}
		if analysis.Empty {
			// Only comments so far; the terminator is part of one of them.
			// Keep buffering until real code arrives.
			continue
		}
		if err := emit(script.Statement{Text: text, Line: s.start}, analysis); err != nil {
			return err
		}
		s.buf.Reset()
		s.started = false
	}
	return nil
}

// flush resolves the trailing buffer once the source is exhausted. A complete
// residual statement is emitted like any other; a residual that still does
// not parse is returned as the run's terminal parse failure. Both return
// values are zero for an empty (or whitespace-only) buffer.
func (s *boundaryScanner) flush(emit emitFunc) (*script.Statement, error) {
	text := script.Trim(s.buf.String())
	s.buf.Reset()
	s.started = false
	if text == "" {
		return nil, nil
	}

	analysis := s.analyzer.Analyze(text)
	if !analysis.Complete {
		return &script.Statement{Text: text, Line: s.start}, nil
	}
	if analysis.Empty {
		// A trailing comment is not a statement.
		return nil, nil
	}
	return nil, emit(script.Statement{Text: text, Line: s.start}, analysis)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
