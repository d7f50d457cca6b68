package ports

import "github.com/alexisbeaulieu97/streamexec/internal/domain/script"

// Analysis is the outcome of a completeness check over buffered statement
// text. When Complete is false the other fields are meaningless and the
// scanner keeps buffering. Empty marks text that parses but contains no
// statements, such as a span holding only comments; the scanner never emits
// an empty span.
type Analysis struct {
	Complete bool
	Empty    bool
	Bindings script.Bindings
}

// Analyzer decides whether a span of buffered text forms a complete,
// syntactically valid program fragment, and if so reports the names its
// top-level declarations bind. Implementations must:
//   - Judge completeness with the dialect's real grammar, never by counting
//     delimiters: terminator characters inside strings, templates, or
//     comments are not boundaries.
//   - Be deterministic and side-effect-free; the engine calls Analyze both
//     during boundary detection and (via caching) for binding extraction.
//   - Report any parse failure, at end-of-input or not, as incomplete. Text
//     that can never parse surfaces later as the run's residual-buffer parse
//     error, not as an Analyze failure.
type Analyzer interface {
	Analyze(source string) Analysis
}

// Lowerer transforms complete surface syntax into the directly executable
// form the Runtime accepts. Lowering failures (an unsupported construct, for
// example) are reported against the statement's start line and classified as
// parse errors even though they occur after a successful completeness check.
type Lowerer interface {
	Lower(source string) (string, error)
}
