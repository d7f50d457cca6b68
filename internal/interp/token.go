package interp

// tokenKind enumerates the lexical classes of the dialect.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword
	tokNumber
	tokString
	tokTemplate
	tokPunct
)

// token is one lexical unit. Template tokens carry the raw body between
// backticks; interpolation is split later by the parser.
type token struct {
	kind tokenKind
	text string
	line int
}

var keywords = map[string]bool{
	"const": true, "let": true, "var": true,
	"function": true, "class": true, "extends": true, "component": true,
	"return": true, "throw": true, "if": true, "else": true, "while": true,
	"new": true, "await": true, "this": true,
	"true": true, "false": true, "null": true, "undefined": true,
	"import": true, "export": true,
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}
