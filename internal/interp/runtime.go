package interp

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

// Runtime implements ports.Runtime for the built-in dialect: a tree-walking
// evaluator over persistent in-process scopes.
type Runtime struct {
	opts Options
}

// NewRuntime creates a runtime with the given dialect extensions.
func NewRuntime(opts Options) *Runtime {
	return &Runtime{opts: opts}
}

var _ ports.Runtime = (*Runtime)(nil)

// NewScope creates an isolated persistent scope seeded with initial bindings.
// Builtins live in a parent frame so Snapshot exposes only caller-visible
// names.
func (r *Runtime) NewScope(initial map[string]any) (ports.Scope, error) {
	s := &Scope{opts: r.opts}
	s.builtins = s.installBuiltins()
	s.global = newEnvironment(s.builtins)
	for name, value := range initial {
		s.global.define(name, value)
	}
	return s, nil
}

// Scope is one persistent execution context. Each Exec runs its unit in a
// fresh child frame, so a failing unit leaks nothing into the persistent
// mapping; the engine hoists declared values via Bind after success.
type Scope struct {
	opts     Options
	builtins *environment
	global   *environment

	mu   sync.Mutex
	sink func(text string)

	// execCtx is the context of the unit currently executing, consulted by
	// blocking builtins such as sleep.
	execCtx context.Context
}

var _ ports.Scope = (*Scope)(nil)

// Exec parses and evaluates one unit, then reads back the values of the
// unit's hoist names as bound in the unit's own frame.
func (s *Scope) Exec(ctx context.Context, unit ports.ExecUnit) (map[string]any, error) {
	prog, err := parse(unit.Source, s.opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.execCtx = ctx
	s.mu.Unlock()

	frame := newEnvironment(s.global)
	ev := &evaluator{ctx: ctx, scope: s}
	for _, st := range prog.stmts {
		if err := ev.execStmt(frame, st); err != nil {
			if _, ok := err.(returnSignal); ok {
				break // top-level return ends the unit quietly
			}
			return nil, err
		}
	}

	if len(unit.Hoist) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(unit.Hoist))
	for _, name := range unit.Hoist {
		if v, ok := frame.lookup(name); ok {
			values[name] = v
		}
	}
	return values, nil
}

// Bind writes one name into the persistent mapping.
func (s *Scope) Bind(name string, value any) {
	s.global.define(name, value)
}

// SetSink installs the statement-scoped output sink.
func (s *Scope) SetSink(fn func(text string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = fn
}

// Snapshot returns the live persistent mapping, not a copy.
func (s *Scope) Snapshot() map[string]any {
	return s.global.vars
}

func (s *Scope) write(text string) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(text)
	}
}

func (s *Scope) currentCtx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.execCtx != nil {
		return s.execCtx
	}
	return context.Background()
}

// installBuiltins populates the root frame shared by every unit.
func (s *Scope) installBuiltins() *environment {
	root := newEnvironment(nil)

	root.define("console", map[string]any{
		"log": &builtin{name: "log", call: func(args []any) (any, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = stringify(arg)
			}
			s.write(strings.Join(parts, " ") + "\n")
			return nil, nil
		}},
	})

	root.define("Error", &builtin{name: "Error", call: func(args []any) (any, error) {
		message := ""
		if len(args) > 0 {
			message = stringify(args[0])
		}
		return &errorValue{name: "Error", message: message}, nil
	}})

	root.define("sleep", &builtin{name: "sleep", call: func(args []any) (any, error) {
		ms := float64(0)
		if len(args) > 0 {
			if n, ok := args[0].(float64); ok {
				ms = n
			}
		}
		ctx := s.currentCtx()
		timer := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, nil
		}
	}})

	return root
}
