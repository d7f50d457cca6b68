package interp

// Statement nodes.

type stmt interface{ stmtNode() }

type program struct {
	stmts []stmt
}

// varDecl covers const/let/var with one or more declarators.
type varDecl struct {
	kind  string
	decls []declarator
}

type declarator struct {
	pat  pattern
	init expr
}

type funcDecl struct {
	name string
	fn   *funcLit
}

type classDecl struct {
	name    string
	methods []method
}

type method struct {
	name string
	fn   *funcLit
}

// componentDecl is the component-templates dialect extension: a named,
// parameterized template producing a string.
type componentDecl struct {
	name string
	fn   *funcLit
}

// moduleDecl is an import or export declaration. The grammar accepts it so
// completeness checks succeed; the lowerer rejects it.
type moduleDecl struct {
	keyword string
}

type exprStmt struct{ x expr }

type throwStmt struct{ x expr }

type returnStmt struct{ x expr } // x may be nil

type ifStmt struct {
	cond expr
	then *blockStmt
	alt  stmt // *blockStmt or *ifStmt, may be nil
}

type whileStmt struct {
	cond expr
	body *blockStmt
}

type blockStmt struct{ stmts []stmt }

func (*varDecl) stmtNode()       {}
func (*funcDecl) stmtNode()      {}
func (*classDecl) stmtNode()     {}
func (*componentDecl) stmtNode() {}
func (*moduleDecl) stmtNode()    {}
func (*exprStmt) stmtNode()      {}
func (*throwStmt) stmtNode()     {}
func (*returnStmt) stmtNode()    {}
func (*ifStmt) stmtNode()        {}
func (*whileStmt) stmtNode()     {}
func (*blockStmt) stmtNode()     {}

// Binding patterns.

type pattern interface {
	// names appends the identifiers bound by this pattern, in source order.
	names(into []string) []string
}

type identPat struct{ name string }

type objectPat struct{ props []objectPatProp }

type objectPatProp struct {
	key   string
	value pattern // identPat when shorthand
}

type arrayPat struct{ elems []pattern } // nil elem for elision

func (p *identPat) names(into []string) []string { return append(into, p.name) }

func (p *objectPat) names(into []string) []string {
	for _, prop := range p.props {
		into = prop.value.names(into)
	}
	return into
}

func (p *arrayPat) names(into []string) []string {
	for _, elem := range p.elems {
		if elem != nil {
			into = elem.names(into)
		}
	}
	return into
}

// Expression nodes.

type expr interface{ exprNode() }

type identExpr struct{ name string }

type numberLit struct{ value float64 }

type stringLit struct{ value string }

type boolLit struct{ value bool }

type nullLit struct{}

// templateLit alternates literal parts and interpolated expressions:
// parts[0] + exprs[0] + parts[1] + ... Parts always has len(exprs)+1 entries.
type templateLit struct {
	parts []string
	exprs []expr
}

type arrayLit struct{ elems []expr }

type objectLit struct{ props []objectLitProp }

type objectLitProp struct {
	key   string
	value expr
}

type funcLit struct {
	params   []string
	body     *blockStmt
	exprBody expr // arrow shorthand body; nil when body is used
}

type callExpr struct {
	callee expr
	args   []expr
}

type newExpr struct {
	callee expr
	args   []expr
}

type memberExpr struct {
	obj  expr
	prop string
}

type indexExpr struct {
	obj   expr
	index expr
}

type binaryExpr struct {
	op  string
	lhs expr
	rhs expr
}

type logicalExpr struct {
	op  string
	lhs expr
	rhs expr
}

type unaryExpr struct {
	op string
	x  expr
}

type assignExpr struct {
	op     string // "=", "+=", "-="
	target expr   // identExpr, memberExpr, or indexExpr
	value  expr
}

type condExpr struct {
	cond expr
	then expr
	alt  expr
}

type awaitExpr struct{ x expr }

func (*identExpr) exprNode()   {}
func (*numberLit) exprNode()   {}
func (*stringLit) exprNode()   {}
func (*boolLit) exprNode()     {}
func (*nullLit) exprNode()     {}
func (*templateLit) exprNode() {}
func (*arrayLit) exprNode()    {}
func (*objectLit) exprNode()   {}
func (*funcLit) exprNode()     {}
func (*callExpr) exprNode()    {}
func (*newExpr) exprNode()     {}
func (*memberExpr) exprNode()  {}
func (*indexExpr) exprNode()   {}
func (*binaryExpr) exprNode()  {}
func (*logicalExpr) exprNode() {}
func (*unaryExpr) exprNode()   {}
func (*assignExpr) exprNode()  {}
func (*condExpr) exprNode()    {}
func (*awaitExpr) exprNode()   {}
