package script

import "strings"

// Statement is a minimal independently-executable span of program text,
// delimited in the source stream by the statement terminator. Line is the
// 1-based line on which the span's first non-whitespace character appears,
// counted from the start of the current run. The span may open with a comment
// that precedes the executable code; Line anchors at that comment, since it
// belongs to the statement it introduces.
type Statement struct {
	Text string
	Line int
}

// Bindings lists the names declared at the top level of a statement, split by
// declaration form. Order follows declaration order in the source; nested
// (inner-scope) declarations are never included.
type Bindings struct {
	Variables []string
	Functions []string
	Classes   []string
}

// Names returns the union of all declared names in declaration-form order:
// variables, then functions, then classes.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b.Variables)+len(b.Functions)+len(b.Classes))
	names = append(names, b.Variables...)
	names = append(names, b.Functions...)
	names = append(names, b.Classes...)
	return names
}

// Empty reports whether the statement declared no top-level names.
func (b Bindings) Empty() bool {
	return len(b.Variables) == 0 && len(b.Functions) == 0 && len(b.Classes) == 0
}

// Trim strips the whitespace that surrounds buffered statement text. Kept in
// one place so the scanner and the flush path agree on what "empty" means.
func Trim(text string) string {
	return strings.TrimSpace(text)
}
