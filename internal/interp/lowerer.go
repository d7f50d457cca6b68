package interp

import (
	"fmt"

	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

// Lowerer implements ports.Lowerer for the built-in dialect. The runtime
// executes surface syntax directly, so lowering is a validation pass: it
// re-checks the program and rejects constructs the runtime will never accept,
// notably module syntax.
type Lowerer struct {
	opts Options
}

// NewLowerer creates a lowerer with the given dialect extensions.
func NewLowerer(opts Options) *Lowerer {
	return &Lowerer{opts: opts}
}

var _ ports.Lowerer = (*Lowerer)(nil)

// Lower validates source and returns it unchanged, or fails with the reason
// the program cannot execute.
func (l *Lowerer) Lower(source string) (string, error) {
	prog, err := parse(source, l.opts)
	if err != nil {
		return "", err
	}
	for _, s := range prog.stmts {
		if decl, ok := s.(*moduleDecl); ok {
			return "", fmt.Errorf("%s declarations are not supported", decl.keyword)
		}
	}
	return source, nil
}
