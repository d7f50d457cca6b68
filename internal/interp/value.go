package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Runtime values are held as: nil (null/undefined), float64, string, bool,
// []any, map[string]any, *function, *boundMethod, *builtin, *class,
// *errorValue.

type function struct {
	params    []string
	body      *blockStmt
	exprBody  expr
	closure   *environment
	name      string
	component bool
}

// boundMethod pairs a class method with its receiver.
type boundMethod struct {
	fn   *function
	this map[string]any
}

type builtin struct {
	name string
	call func(args []any) (any, error)
}

type class struct {
	name        string
	constructor *function
	methods     []*function
}

type errorValue struct {
	name    string
	message string
}

// Thrown carries a value raised by `throw` (or by the runtime itself) across
// the evaluator as an error. The value is preserved verbatim.
type Thrown struct {
	Value any
}

func (t *Thrown) Error() string {
	return stringify(t.Value)
}

// Message exposes the thrown value's own message when it has one, matching
// the event-message derivation rule: an object's message field wins over
// stringification.
func (t *Thrown) Message() string {
	if ev, ok := t.Value.(*errorValue); ok {
		return ev.message
	}
	return ""
}

func throwRef(name string) error {
	return &Thrown{Value: &errorValue{name: "ReferenceError", message: name + " is not defined"}}
}

func throwType(format string, args ...any) error {
	return &Thrown{Value: &errorValue{name: "TypeError", message: fmt.Sprintf(format, args...)}}
}

// returnSignal unwinds a function body on `return`.
type returnSignal struct {
	value any
}

func (returnSignal) Error() string { return "return outside function" }

// environment is one lexical scope frame.
type environment struct {
	vars   map[string]any
	parent *environment
}

func newEnvironment(parent *environment) *environment {
	return &environment{vars: make(map[string]any), parent: parent}
}

func (e *environment) define(name string, value any) {
	e.vars[name] = value
}

func (e *environment) lookup(name string) (any, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// assign writes to the frame that already holds name and reports whether one
// was found.
func (e *environment) assign(name string, value any) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = value
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func looseEq(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	// Reference types compare by identity where possible.
	return sameRef(a, b)
}

func sameRef(a, b any) bool {
	switch x := a.(type) {
	case *function:
		y, ok := b.(*function)
		return ok && x == y
	case *builtin:
		y, ok := b.(*builtin)
		return ok && x == y
	case *class:
		y, ok := b.(*class)
		return ok && x == y
	case *errorValue:
		y, ok := b.(*errorValue)
		return ok && x == y
	}
	return false
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, elem := range x {
			parts[i] = stringify(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + stringify(x[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *function:
		if x.name != "" {
			return "[function " + x.name + "]"
		}
		return "[function]"
	case *boundMethod:
		return "[function " + x.fn.name + "]"
	case *builtin:
		return "[function " + x.name + "]"
	case *class:
		return "[class " + x.name + "]"
	case *errorValue:
		if x.message == "" {
			return x.name
		}
		return x.name + ": " + x.message
	default:
		return fmt.Sprint(x)
	}
}
