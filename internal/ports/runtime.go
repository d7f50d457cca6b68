package ports

import "context"

// ExecUnit is one statement's worth of executable text plus the top-level
// names whose values the runtime must report back for hoisting, in
// declaration order. An empty Hoist list means the unit yields nothing.
type ExecUnit struct {
	Source string
	Hoist  []string
}

// Runtime creates isolated persistent scopes in which lowered program text
// runs. The engine owns scope lifecycle: one scope per executor instance,
// shared by every run on that instance.
type Runtime interface {
	NewScope(initial map[string]any) (Scope, error)
}

// Scope is a persistent name→value mapping isolated from the host process.
// Implementations must:
//   - Evaluate the unit so that failures leak no partial bindings into the
//     persistent mapping; the engine hoists declared values itself, via
//     Bind, only after Exec succeeds.
//   - Honor ctx cancellation at every suspension point of the executed code.
//     Purely synchronous bodies are allowed to run on past cancellation; the
//     engine treats the raced timeout as advisory for those.
//   - Route output produced by executed code to the currently installed
//     sink, including output from asynchronous continuations that settle
//     before Exec returns.
type Scope interface {
	// Exec runs one unit and returns the values of the unit's Hoist names as
	// observed in the unit's own scope after the body completes.
	Exec(ctx context.Context, unit ExecUnit) (map[string]any, error)

	// Bind writes one name into the persistent mapping, overwriting any
	// prior value under that name.
	Bind(name string, value any)

	// SetSink installs the statement-scoped output sink. Writes performed by
	// executed code are forwarded to fn until a different sink is installed.
	SetSink(fn func(text string))

	// Snapshot returns the live persistent mapping, not a copy.
	Snapshot() map[string]any
}
