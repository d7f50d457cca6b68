package interp

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer tokenizes dialect source. Unterminated strings, templates, and block
// comments surface as errors, which the analyzer maps to "incomplete" so the
// scanner keeps buffering past terminators embedded in them.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

// lexError is a positioned tokenization failure.
type lexError struct {
	msg  string
	line int
}

func (e *lexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

func (l *lexer) errorf(format string, args ...any) error {
	return &lexError{msg: fmt.Sprintf(format, args...), line: l.line}
}

// tokens runs the lexer to completion.
func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	start := l.pos
	line := l.line
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		kind := tokIdent
		if keywords[text] {
			kind = tokKeyword
		}
		return token{kind: kind, text: text, line: line}, nil

	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], line: line}, nil

	case c == '"' || c == '\'':
		body, err := l.scanString(c)
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: body, line: line}, nil

	case c == '`':
		body, err := l.scanTemplate()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokTemplate, text: body, line: line}, nil
	}

	for _, p := range multiPuncts {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.pos += len(p)
			return token{kind: tokPunct, text: p, line: line}, nil
		}
	}

	if strings.ContainsRune("(){}[],;:.=<>+-*/%!&|?", rune(c)) {
		l.pos++
		return token{kind: tokPunct, text: string(c), line: line}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return token{}, l.errorf("unexpected character %q", r)
}

// longest first so "===" wins over "==".
var multiPuncts = []string{
	"===", "!==", "...", "=>", "==", "!=", "<=", ">=", "&&", "||", "??", "+=", "-=",
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//"):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.pos = len(l.src)
				return l.errorf("unterminated block comment")
			}
			l.line += strings.Count(l.src[l.pos:l.pos+2+end+2], "\n")
			l.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) scanString(quote byte) (string, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return b.String(), nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				return "", l.errorf("unterminated string")
			}
			b.WriteByte(unescape(l.src[l.pos+1]))
			l.pos += 2
		case '\n':
			return "", l.errorf("unterminated string")
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return "", l.errorf("unterminated string")
}

// scanTemplate captures the raw body between backticks, newlines included.
// `${` interpolation stays in the body for the parser to split.
func (l *lexer) scanTemplate() (string, error) {
	l.pos++ // opening backtick
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '`' {
			body := l.src[start:l.pos]
			l.pos++
			return body, nil
		}
		if c == '\n' {
			l.line++
		}
		if c == '\\' {
			l.pos++
		}
		l.pos++
	}
	return "", l.errorf("unterminated template literal")
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
