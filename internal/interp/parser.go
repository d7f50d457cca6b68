package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Options selects optional dialect extensions. The zero value is the base
// dialect.
type Options struct {
	// ComponentTemplates enables the `component` declaration form.
	ComponentTemplates bool
}

// parseError is any syntactic failure. The analyzer treats every parse error
// as "incomplete": text that can never parse is reported by the engine at end
// of stream, not here.
type parseError struct {
	msg  string
	line int
}

func (e *parseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

type parser struct {
	toks []token
	pos  int
	opts Options
}

// parse parses source as a program: a sequence of statements.
func parse(src string, opts Options) (*program, error) {
	toks, err := newLexer(src).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, opts: opts}
	prog := &program{}
	for !p.atEOF() {
		// Empty statement: a stray terminator contributes nothing.
		if p.accept(tokPunct, ";") {
			continue
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.stmts = append(prog.stmts, s)
	}
	return prog, nil
}

func (p *parser) atEOF() bool { return p.peek().kind == tokEOF }
func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(format string, args ...any) error {
	return &parseError{msg: fmt.Sprintf(format, args...), line: p.peek().line}
}

func (p *parser) expect(kind tokenKind, text string) error {
	if !p.peek().is(kind, text) {
		if p.atEOF() {
			return p.errorf("unexpected end of input, expected %q", text)
		}
		return p.errorf("expected %q, found %q", text, p.peek().text)
	}
	p.advance()
	return nil
}

func (p *parser) accept(kind tokenKind, text string) bool {
	if p.peek().is(kind, text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) statement() (stmt, error) {
	tok := p.peek()
	if tok.kind == tokKeyword {
		switch tok.text {
		case "const", "let", "var":
			return p.varDecl()
		case "function":
			return p.funcDecl()
		case "class":
			return p.classDecl()
		case "component":
			if p.opts.ComponentTemplates {
				return p.componentDecl()
			}
		case "import", "export":
			return p.moduleDecl()
		case "throw":
			p.advance()
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			p.accept(tokPunct, ";")
			return &throwStmt{x: x}, nil
		case "return":
			p.advance()
			if p.accept(tokPunct, ";") || p.peek().is(tokPunct, "}") || p.atEOF() {
				return &returnStmt{}, nil
			}
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			p.accept(tokPunct, ";")
			return &returnStmt{x: x}, nil
		case "if":
			return p.ifStmt()
		case "while":
			return p.whileStmt()
		}
	}
	if tok.is(tokPunct, "{") {
		return p.block()
	}

	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.accept(tokPunct, ";")
	return &exprStmt{x: x}, nil
}

func (p *parser) varDecl() (stmt, error) {
	kind := p.advance().text
	decl := &varDecl{kind: kind}
	for {
		pat, err := p.bindingPattern()
		if err != nil {
			return nil, err
		}
		d := declarator{pat: pat}
		if p.accept(tokPunct, "=") {
			init, err := p.assignment()
			if err != nil {
				return nil, err
			}
			d.init = init
		}
		decl.decls = append(decl.decls, d)
		if !p.accept(tokPunct, ",") {
			break
		}
	}
	if err := p.requireTerminator(); err != nil {
		return nil, err
	}
	return decl, nil
}

// requireTerminator demands a semicolon (or block end / end of input) after a
// declaration so that `const x = ` is judged incomplete rather than complete.
func (p *parser) requireTerminator() error {
	if p.accept(tokPunct, ";") || p.peek().is(tokPunct, "}") || p.atEOF() {
		return nil
	}
	return p.errorf("expected \";\", found %q", p.peek().text)
}

func (p *parser) bindingPattern() (pattern, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokIdent:
		p.advance()
		return &identPat{name: tok.text}, nil
	case tok.is(tokPunct, "{"):
		return p.objectPattern()
	case tok.is(tokPunct, "["):
		return p.arrayPattern()
	}
	if p.atEOF() {
		return nil, p.errorf("unexpected end of input in binding")
	}
	return nil, p.errorf("expected binding name, found %q", tok.text)
}

func (p *parser) objectPattern() (pattern, error) {
	p.advance() // {
	pat := &objectPat{}
	for !p.accept(tokPunct, "}") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in object pattern")
		}
		key := p.peek()
		if key.kind != tokIdent {
			return nil, p.errorf("expected property name, found %q", key.text)
		}
		p.advance()
		prop := objectPatProp{key: key.text, value: &identPat{name: key.text}}
		if p.accept(tokPunct, ":") {
			value, err := p.bindingPattern()
			if err != nil {
				return nil, err
			}
			prop.value = value
		}
		pat.props = append(pat.props, prop)
		if !p.accept(tokPunct, ",") {
			if err := p.expect(tokPunct, "}"); err != nil {
				return nil, err
			}
			break
		}
	}
	return pat, nil
}

func (p *parser) arrayPattern() (pattern, error) {
	p.advance() // [
	pat := &arrayPat{}
	for !p.accept(tokPunct, "]") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in array pattern")
		}
		if p.accept(tokPunct, ",") {
			pat.elems = append(pat.elems, nil)
			continue
		}
		elem, err := p.bindingPattern()
		if err != nil {
			return nil, err
		}
		pat.elems = append(pat.elems, elem)
		if !p.accept(tokPunct, ",") {
			if err := p.expect(tokPunct, "]"); err != nil {
				return nil, err
			}
			break
		}
	}
	return pat, nil
}

func (p *parser) funcDecl() (stmt, error) {
	p.advance() // function
	name := p.peek()
	if name.kind != tokIdent {
		return nil, p.errorf("expected function name, found %q", name.text)
	}
	p.advance()
	fn, err := p.funcRest()
	if err != nil {
		return nil, err
	}
	return &funcDecl{name: name.text, fn: fn}, nil
}

func (p *parser) componentDecl() (stmt, error) {
	p.advance() // component
	name := p.peek()
	if name.kind != tokIdent {
		return nil, p.errorf("expected component name, found %q", name.text)
	}
	p.advance()
	fn, err := p.funcRest()
	if err != nil {
		return nil, err
	}
	return &componentDecl{name: name.text, fn: fn}, nil
}

// funcRest parses "(params) { body }".
func (p *parser) funcRest() (*funcLit, error) {
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &funcLit{params: params, body: body}, nil
}

func (p *parser) paramList() ([]string, error) {
	if err := p.expect(tokPunct, "("); err != nil {
		return nil, err
	}
	var params []string
	for !p.accept(tokPunct, ")") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in parameter list")
		}
		tok := p.peek()
		if tok.kind != tokIdent {
			return nil, p.errorf("expected parameter name, found %q", tok.text)
		}
		p.advance()
		params = append(params, tok.text)
		if !p.accept(tokPunct, ",") {
			if err := p.expect(tokPunct, ")"); err != nil {
				return nil, err
			}
			break
		}
	}
	return params, nil
}

func (p *parser) classDecl() (stmt, error) {
	p.advance() // class
	name := p.peek()
	if name.kind != tokIdent {
		return nil, p.errorf("expected class name, found %q", name.text)
	}
	p.advance()
	if p.accept(tokKeyword, "extends") {
		if p.peek().kind != tokIdent {
			return nil, p.errorf("expected superclass name, found %q", p.peek().text)
		}
		p.advance()
	}
	if err := p.expect(tokPunct, "{"); err != nil {
		return nil, err
	}
	decl := &classDecl{name: name.text}
	for !p.accept(tokPunct, "}") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in class body")
		}
		mname := p.peek()
		if mname.kind != tokIdent {
			return nil, p.errorf("expected method name, found %q", mname.text)
		}
		p.advance()
		fn, err := p.funcRest()
		if err != nil {
			return nil, err
		}
		decl.methods = append(decl.methods, method{name: mname.text, fn: fn})
	}
	return decl, nil
}

// moduleDecl swallows an import/export declaration through its terminator.
// The lowerer rejects these; accepting them here keeps the completeness check
// honest about where the statement ends.
func (p *parser) moduleDecl() (stmt, error) {
	keyword := p.advance().text
	depth := 0
	for !p.atEOF() {
		tok := p.peek()
		if tok.is(tokPunct, "{") {
			depth++
		}
		if tok.is(tokPunct, "}") {
			depth--
		}
		p.advance()
		if depth == 0 && tok.is(tokPunct, ";") {
			break
		}
	}
	return &moduleDecl{keyword: keyword}, nil
}

func (p *parser) ifStmt() (stmt, error) {
	p.advance() // if
	if err := p.expect(tokPunct, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokPunct, ")"); err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	node := &ifStmt{cond: cond, then: then}
	if p.accept(tokKeyword, "else") {
		if p.peek().is(tokKeyword, "if") {
			alt, err := p.ifStmt()
			if err != nil {
				return nil, err
			}
			node.alt = alt
		} else {
			alt, err := p.block()
			if err != nil {
				return nil, err
			}
			node.alt = alt
		}
	}
	return node, nil
}

func (p *parser) whileStmt() (stmt, error) {
	p.advance() // while
	if err := p.expect(tokPunct, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokPunct, ")"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &whileStmt{cond: cond, body: body}, nil
}

func (p *parser) block() (*blockStmt, error) {
	if err := p.expect(tokPunct, "{"); err != nil {
		return nil, err
	}
	blk := &blockStmt{}
	for !p.accept(tokPunct, "}") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in block")
		}
		if p.accept(tokPunct, ";") {
			continue
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.stmts = append(blk.stmts, s)
	}
	return blk, nil
}

// Expressions, lowest precedence first.

func (p *parser) expression() (expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (expr, error) {
	lhs, err := p.conditional()
	if err != nil {
		return nil, err
	}
	for _, op := range []string{"=", "+=", "-="} {
		if p.peek().is(tokPunct, op) {
			switch lhs.(type) {
			case *identExpr, *memberExpr, *indexExpr:
			default:
				return nil, p.errorf("invalid assignment target")
			}
			p.advance()
			value, err := p.assignment()
			if err != nil {
				return nil, err
			}
			return &assignExpr{op: op, target: lhs, value: value}, nil
		}
	}
	return lhs, nil
}

func (p *parser) conditional() (expr, error) {
	cond, err := p.nullish()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokPunct, "?") {
		return cond, nil
	}
	then, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokPunct, ":"); err != nil {
		return nil, err
	}
	alt, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &condExpr{cond: cond, then: then, alt: alt}, nil
}

func (p *parser) nullish() (expr, error) {
	return p.binaryLevel(0)
}

// binary precedence tiers, loosest to tightest.
var binaryTiers = [][]string{
	{"??"},
	{"||"},
	{"&&"},
	{"===", "!==", "==", "!="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) binaryLevel(tier int) (expr, error) {
	if tier == len(binaryTiers) {
		return p.unary()
	}
	lhs, err := p.binaryLevel(tier + 1)
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		for _, op := range binaryTiers[tier] {
			if p.peek().is(tokPunct, op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.binaryLevel(tier + 1)
		if err != nil {
			return nil, err
		}
		if matched == "&&" || matched == "||" || matched == "??" {
			lhs = &logicalExpr{op: matched, lhs: lhs, rhs: rhs}
		} else {
			lhs = &binaryExpr{op: matched, lhs: lhs, rhs: rhs}
		}
	}
}

func (p *parser) unary() (expr, error) {
	tok := p.peek()
	if tok.is(tokPunct, "!") || tok.is(tokPunct, "-") {
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: tok.text, x: x}, nil
	}
	if tok.is(tokKeyword, "await") {
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &awaitExpr{x: x}, nil
	}
	if tok.is(tokKeyword, "new") {
		p.advance()
		callee, err := p.postfix()
		if err != nil {
			return nil, err
		}
		// Peel the call off the callee: `new F(args)` parses F(args) above.
		if call, ok := callee.(*callExpr); ok {
			return &newExpr{callee: call.callee, args: call.args}, nil
		}
		return &newExpr{callee: callee}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peek().is(tokPunct, "("):
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			x = &callExpr{callee: x, args: args}
		case p.peek().is(tokPunct, "."):
			p.advance()
			prop := p.peek()
			if prop.kind != tokIdent && prop.kind != tokKeyword {
				return nil, p.errorf("expected property name, found %q", prop.text)
			}
			p.advance()
			x = &memberExpr{obj: x, prop: prop.text}
		case p.peek().is(tokPunct, "["):
			p.advance()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokPunct, "]"); err != nil {
				return nil, err
			}
			x = &indexExpr{obj: x, index: index}
		default:
			return x, nil
		}
	}
}

func (p *parser) argList() ([]expr, error) {
	p.advance() // (
	var args []expr
	for !p.accept(tokPunct, ")") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in arguments")
		}
		arg, err := p.assignment()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(tokPunct, ",") {
			if err := p.expect(tokPunct, ")"); err != nil {
				return nil, err
			}
			break
		}
	}
	return args, nil
}

func (p *parser) primary() (expr, error) {
	tok := p.peek()

	switch tok.kind {
	case tokNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", tok.text)
		}
		return &numberLit{value: value}, nil
	case tokString:
		p.advance()
		return &stringLit{value: tok.text}, nil
	case tokTemplate:
		p.advance()
		return p.template(tok.text)
	case tokIdent:
		// Single-parameter arrow shorthand: x => expr
		if p.peekAt(1).is(tokPunct, "=>") {
			p.advance()
			p.advance()
			return p.arrowBody([]string{tok.text})
		}
		p.advance()
		return &identExpr{name: tok.text}, nil
	case tokKeyword:
		switch tok.text {
		case "true", "false":
			p.advance()
			return &boolLit{value: tok.text == "true"}, nil
		case "null", "undefined":
			p.advance()
			return &nullLit{}, nil
		case "this":
			p.advance()
			return &identExpr{name: "this"}, nil
		case "function":
			p.advance()
			if p.peek().kind == tokIdent {
				p.advance() // optional name, unused in expression position
			}
			return p.funcRest()
		}
	case tokEOF:
		return nil, p.errorf("unexpected end of input")
	}

	switch {
	case tok.is(tokPunct, "("):
		if params, ok := p.tryArrowParams(); ok {
			return p.arrowBody(params)
		}
		p.advance()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokPunct, ")"); err != nil {
			return nil, err
		}
		return x, nil
	case tok.is(tokPunct, "["):
		return p.arrayLiteral()
	case tok.is(tokPunct, "{"):
		return p.objectLiteral()
	}

	return nil, p.errorf("unexpected token %q", tok.text)
}

// tryArrowParams detects "(a, b) =>" with lookahead and, on a match, consumes
// through the arrow and returns the parameter names.
func (p *parser) tryArrowParams() ([]string, bool) {
	i := p.pos + 1
	var params []string
	for {
		if i >= len(p.toks) {
			return nil, false
		}
		tok := p.toks[i]
		if tok.is(tokPunct, ")") {
			i++
			break
		}
		if tok.kind != tokIdent {
			return nil, false
		}
		params = append(params, tok.text)
		i++
		if i < len(p.toks) && p.toks[i].is(tokPunct, ",") {
			i++
			continue
		}
		if i < len(p.toks) && p.toks[i].is(tokPunct, ")") {
			i++
			break
		}
		return nil, false
	}
	if i >= len(p.toks) || !p.toks[i].is(tokPunct, "=>") {
		return nil, false
	}
	p.pos = i + 1
	return params, true
}

func (p *parser) arrowBody(params []string) (expr, error) {
	if p.peek().is(tokPunct, "{") {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &funcLit{params: params, body: body}, nil
	}
	x, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &funcLit{params: params, exprBody: x}, nil
}

func (p *parser) arrayLiteral() (expr, error) {
	p.advance() // [
	lit := &arrayLit{}
	for !p.accept(tokPunct, "]") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in array literal")
		}
		elem, err := p.assignment()
		if err != nil {
			return nil, err
		}
		lit.elems = append(lit.elems, elem)
		if !p.accept(tokPunct, ",") {
			if err := p.expect(tokPunct, "]"); err != nil {
				return nil, err
			}
			break
		}
	}
	return lit, nil
}

func (p *parser) objectLiteral() (expr, error) {
	p.advance() // {
	lit := &objectLit{}
	for !p.accept(tokPunct, "}") {
		if p.atEOF() {
			return nil, p.errorf("unexpected end of input in object literal")
		}
		key := p.peek()
		if key.kind != tokIdent && key.kind != tokString && key.kind != tokKeyword {
			return nil, p.errorf("expected property name, found %q", key.text)
		}
		p.advance()
		prop := objectLitProp{key: key.text}
		if p.accept(tokPunct, ":") {
			value, err := p.assignment()
			if err != nil {
				return nil, err
			}
			prop.value = value
		} else {
			// Shorthand {name}.
			prop.value = &identExpr{name: key.text}
		}
		lit.props = append(lit.props, prop)
		if !p.accept(tokPunct, ",") {
			if err := p.expect(tokPunct, "}"); err != nil {
				return nil, err
			}
			break
		}
	}
	return lit, nil
}

// template splits a raw template body into literal parts and interpolated
// expressions.
func (p *parser) template(raw string) (expr, error) {
	lit := &templateLit{}
	rest := raw
	for {
		idx := strings.Index(rest, "${")
		if idx < 0 {
			lit.parts = append(lit.parts, unescapeTemplate(rest))
			return lit, nil
		}
		lit.parts = append(lit.parts, unescapeTemplate(rest[:idx]))
		rest = rest[idx+2:]
		end := matchBrace(rest)
		if end < 0 {
			return nil, &parseError{msg: "unterminated template interpolation", line: p.peek().line}
		}
		inner, err := parseExprText(rest[:end], p.opts)
		if err != nil {
			return nil, err
		}
		lit.exprs = append(lit.exprs, inner)
		rest = rest[end+1:]
	}
}

// matchBrace returns the index of the '}' closing the interpolation opened
// just before s, or -1.
func matchBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func unescapeTemplate(s string) string {
	s = strings.ReplaceAll(s, "\\`", "`")
	s = strings.ReplaceAll(s, "\\$", "$")
	return s
}

// parseExprText parses a standalone expression, used for template
// interpolations.
func parseExprText(src string, opts Options) (expr, error) {
	toks, err := newLexer(src).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, opts: opts}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected token %q", p.peek().text)
	}
	return x, nil
}
