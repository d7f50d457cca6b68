package script

import "fmt"

// ErrorKind classifies a statement-level failure.
type ErrorKind string

const (
	// KindParse marks text that never became valid executable input: a
	// lowering rejection, or a stream that ended with a permanently
	// incomplete residual buffer.
	KindParse ErrorKind = "parse"
	// KindRuntime marks a value thrown by executed code.
	KindRuntime ErrorKind = "runtime"
	// KindTimeout marks an execution that exceeded the configured bound.
	KindTimeout ErrorKind = "timeout"
)

// IncompleteStatementMessage is the message attached to the parse error
// produced when the stream ends with unparseable residual text.
const IncompleteStatementMessage = "Incomplete statement"

// Error describes one statement's failure. Thrown preserves the original
// thrown value verbatim so structured error data survives the flattening into
// Message. Line is the start line of the offending statement within its run.
type Error struct {
	Kind    ErrorKind
	Thrown  any
	Message string
	Line    int
}

// messager is implemented by thrown values that carry their own
// human-readable message, which takes precedence over stringification.
type messager interface {
	Message() string
}

// NewError builds an Error of the given kind around a thrown value. The
// message is the thrown value's own message when it exposes a non-empty one,
// otherwise its stringification.
func NewError(kind ErrorKind, thrown any, line int) *Error {
	return &Error{Kind: kind, Thrown: thrown, Message: messageOf(thrown), Line: line}
}

// NewParseError builds a parse-kind Error carrying an explicit message.
func NewParseError(message string, line int) *Error {
	return &Error{Kind: KindParse, Message: message, Line: line}
}

func messageOf(thrown any) string {
	if m, ok := thrown.(messager); ok {
		if msg := m.Message(); msg != "" {
			return msg
		}
	}
	if err, ok := thrown.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(thrown)
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s error at line %d: %s", e.Kind, e.Line, e.Message)
}

// Unwrap exposes the thrown value when it is itself an error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	if err, ok := e.Thrown.(error); ok {
		return err
	}
	return nil
}
