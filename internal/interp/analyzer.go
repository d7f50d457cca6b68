package interp

import (
	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

// Analyzer implements ports.Analyzer for the built-in dialect. Completeness
// is judged by the full grammar: any parse failure, including one caused by a
// terminator inside a string or comment, reports the text as incomplete.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates an analyzer with the given dialect extensions.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

var _ ports.Analyzer = (*Analyzer)(nil)

// Analyze parses source as a program and, when it parses, extracts the names
// bound by its top-level declarations.
func (a *Analyzer) Analyze(source string) ports.Analysis {
	prog, err := parse(source, a.opts)
	if err != nil {
		return ports.Analysis{}
	}
	return ports.Analysis{Complete: true, Empty: len(prog.stmts) == 0, Bindings: declaredNames(prog)}
}

// declaredNames walks top-level statements only; declarations inside blocks,
// functions, or class bodies are never hoisted.
func declaredNames(prog *program) script.Bindings {
	var b script.Bindings
	for _, s := range prog.stmts {
		switch decl := s.(type) {
		case *varDecl:
			for _, d := range decl.decls {
				b.Variables = d.pat.names(b.Variables)
			}
		case *funcDecl:
			b.Functions = append(b.Functions, decl.name)
		case *componentDecl:
			b.Functions = append(b.Functions, decl.name)
		case *classDecl:
			b.Classes = append(b.Classes, decl.name)
		}
	}
	return b
}
