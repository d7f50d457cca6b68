package interp

import (
	"context"
	"math"
)

// evaluator walks statements and expressions against an environment chain.
// Thrown values, returns, and host failures all travel as errors.
type evaluator struct {
	ctx   context.Context
	scope *Scope
}

func (e *evaluator) execStmt(env *environment, s stmt) error {
	switch node := s.(type) {
	case *varDecl:
		for _, d := range node.decls {
			var value any
			if d.init != nil {
				v, err := e.eval(env, d.init)
				if err != nil {
					return err
				}
				value = v
			}
			if err := e.destructure(env, d.pat, value); err != nil {
				return err
			}
		}
		return nil

	case *funcDecl:
		env.define(node.name, &function{
			params:  node.fn.params,
			body:    node.fn.body,
			closure: env,
			name:    node.name,
		})
		return nil

	case *componentDecl:
		env.define(node.name, &function{
			params:    node.fn.params,
			body:      node.fn.body,
			closure:   env,
			name:      node.name,
			component: true,
		})
		return nil

	case *classDecl:
		c := &class{name: node.name}
		for _, m := range node.methods {
			fn := &function{params: m.fn.params, body: m.fn.body, closure: env, name: m.name}
			if m.name == "constructor" {
				c.constructor = fn
				continue
			}
			c.methods = append(c.methods, fn)
		}
		env.define(node.name, c)
		return nil

	case *moduleDecl:
		return throwType("%s declarations are not supported", node.keyword)

	case *exprStmt:
		_, err := e.eval(env, node.x)
		return err

	case *throwStmt:
		v, err := e.eval(env, node.x)
		if err != nil {
			return err
		}
		return &Thrown{Value: v}

	case *returnStmt:
		var value any
		if node.x != nil {
			v, err := e.eval(env, node.x)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value: value}

	case *ifStmt:
		cond, err := e.eval(env, node.cond)
		if err != nil {
			return err
		}
		if truthy(cond) {
			return e.execBlock(env, node.then)
		}
		if node.alt != nil {
			if blk, ok := node.alt.(*blockStmt); ok {
				return e.execBlock(env, blk)
			}
			return e.execStmt(env, node.alt)
		}
		return nil

	case *whileStmt:
		for {
			if err := e.ctx.Err(); err != nil {
				return err
			}
			cond, err := e.eval(env, node.cond)
			if err != nil {
				return err
			}
			if !truthy(cond) {
				return nil
			}
			if err := e.execBlock(env, node.body); err != nil {
				return err
			}
		}

	case *blockStmt:
		return e.execBlock(env, node)
	}
	return throwType("unsupported statement")
}

func (e *evaluator) execBlock(env *environment, blk *blockStmt) error {
	inner := newEnvironment(env)
	for _, s := range blk.stmts {
		if err := e.execStmt(inner, s); err != nil {
			return err
		}
	}
	return nil
}

// destructure binds pattern names for value into env, recursing through
// nested object and array patterns.
func (e *evaluator) destructure(env *environment, pat pattern, value any) error {
	switch p := pat.(type) {
	case *identPat:
		env.define(p.name, value)
		return nil

	case *objectPat:
		obj, ok := value.(map[string]any)
		if !ok {
			return throwType("cannot destructure %s as an object", stringify(value))
		}
		for _, prop := range p.props {
			if err := e.destructure(env, prop.value, obj[prop.key]); err != nil {
				return err
			}
		}
		return nil

	case *arrayPat:
		arr, ok := value.([]any)
		if !ok {
			return throwType("cannot destructure %s as an array", stringify(value))
		}
		for i, elem := range p.elems {
			if elem == nil {
				continue
			}
			var v any
			if i < len(arr) {
				v = arr[i]
			}
			if err := e.destructure(env, elem, v); err != nil {
				return err
			}
		}
		return nil
	}
	return throwType("unsupported binding pattern")
}

func (e *evaluator) eval(env *environment, x expr) (any, error) {
	switch node := x.(type) {
	case *numberLit:
		return node.value, nil
	case *stringLit:
		return node.value, nil
	case *boolLit:
		return node.value, nil
	case *nullLit:
		return nil, nil

	case *identExpr:
		if v, ok := env.lookup(node.name); ok {
			return v, nil
		}
		return nil, throwRef(node.name)

	case *templateLit:
		out := node.parts[0]
		for i, inner := range node.exprs {
			v, err := e.eval(env, inner)
			if err != nil {
				return nil, err
			}
			out += stringify(v) + node.parts[i+1]
		}
		return out, nil

	case *arrayLit:
		arr := make([]any, 0, len(node.elems))
		for _, elem := range node.elems {
			v, err := e.eval(env, elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case *objectLit:
		obj := make(map[string]any, len(node.props))
		for _, prop := range node.props {
			v, err := e.eval(env, prop.value)
			if err != nil {
				return nil, err
			}
			obj[prop.key] = v
		}
		return obj, nil

	case *funcLit:
		return &function{
			params:   node.params,
			body:     node.body,
			exprBody: node.exprBody,
			closure:  env,
		}, nil

	case *awaitExpr:
		// Values settle synchronously; await is a suspension point only for
		// blocking builtins, which watch the unit's context themselves.
		return e.eval(env, node.x)

	case *unaryExpr:
		v, err := e.eval(env, node.x)
		if err != nil {
			return nil, err
		}
		switch node.op {
		case "!":
			return !truthy(v), nil
		case "-":
			n, ok := v.(float64)
			if !ok {
				return math.NaN(), nil
			}
			return -n, nil
		}
		return nil, throwType("unsupported unary operator %q", node.op)

	case *logicalExpr:
		lhs, err := e.eval(env, node.lhs)
		if err != nil {
			return nil, err
		}
		switch node.op {
		case "&&":
			if !truthy(lhs) {
				return lhs, nil
			}
		case "||":
			if truthy(lhs) {
				return lhs, nil
			}
		case "??":
			if lhs != nil {
				return lhs, nil
			}
		}
		return e.eval(env, node.rhs)

	case *binaryExpr:
		lhs, err := e.eval(env, node.lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := e.eval(env, node.rhs)
		if err != nil {
			return nil, err
		}
		return binaryOp(node.op, lhs, rhs)

	case *condExpr:
		cond, err := e.eval(env, node.cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return e.eval(env, node.then)
		}
		return e.eval(env, node.alt)

	case *assignExpr:
		return e.assign(env, node)

	case *callExpr:
		return e.evalCall(env, node)

	case *newExpr:
		return e.evalNew(env, node)

	case *memberExpr:
		obj, err := e.eval(env, node.obj)
		if err != nil {
			return nil, err
		}
		return getMember(obj, node.prop)

	case *indexExpr:
		obj, err := e.eval(env, node.obj)
		if err != nil {
			return nil, err
		}
		index, err := e.eval(env, node.index)
		if err != nil {
			return nil, err
		}
		return getIndex(obj, index)
	}
	return nil, throwType("unsupported expression")
}

func (e *evaluator) assign(env *environment, node *assignExpr) (any, error) {
	value, err := e.eval(env, node.value)
	if err != nil {
		return nil, err
	}

	if node.op != "=" {
		current, err := e.eval(env, node.target)
		if err != nil {
			return nil, err
		}
		op := "+"
		if node.op == "-=" {
			op = "-"
		}
		value, err = binaryOp(op, current, value)
		if err != nil {
			return nil, err
		}
	}

	switch target := node.target.(type) {
	case *identExpr:
		if !env.assign(target.name, value) {
			// Assignment to an undeclared name lands in the persistent
			// scope, so it survives the statement like a declaration would.
			e.scope.global.define(target.name, value)
		}
		return value, nil

	case *memberExpr:
		obj, err := e.eval(env, target.obj)
		if err != nil {
			return nil, err
		}
		m, ok := obj.(map[string]any)
		if !ok {
			return nil, throwType("cannot set property %q on %s", target.prop, stringify(obj))
		}
		m[target.prop] = value
		return value, nil

	case *indexExpr:
		obj, err := e.eval(env, target.obj)
		if err != nil {
			return nil, err
		}
		index, err := e.eval(env, target.index)
		if err != nil {
			return nil, err
		}
		switch container := obj.(type) {
		case []any:
			i, ok := index.(float64)
			if !ok || i < 0 || int(i) >= len(container) {
				return nil, throwType("invalid array index %s", stringify(index))
			}
			container[int(i)] = value
			return value, nil
		case map[string]any:
			container[stringify(index)] = value
			return value, nil
		}
		return nil, throwType("cannot index %s", stringify(obj))
	}
	return nil, throwType("invalid assignment target")
}

func (e *evaluator) evalCall(env *environment, node *callExpr) (any, error) {
	// Member calls bind the receiver.
	if member, ok := node.callee.(*memberExpr); ok {
		obj, err := e.eval(env, member.obj)
		if err != nil {
			return nil, err
		}
		callee, err := getMember(obj, member.prop)
		if err != nil {
			return nil, err
		}
		args, err := e.evalArgs(env, node.args)
		if err != nil {
			return nil, err
		}
		return e.apply(callee, obj, args)
	}

	callee, err := e.eval(env, node.callee)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(env, node.args)
	if err != nil {
		return nil, err
	}
	return e.apply(callee, nil, args)
}

func (e *evaluator) evalArgs(env *environment, exprs []expr) ([]any, error) {
	args := make([]any, 0, len(exprs))
	for _, x := range exprs {
		v, err := e.eval(env, x)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// apply invokes a callable value. this is non-nil for member calls.
func (e *evaluator) apply(callee any, this any, args []any) (any, error) {
	switch fn := callee.(type) {
	case *builtin:
		return fn.call(args)

	case *boundMethod:
		return e.invoke(fn.fn, fn.this, args)

	case *function:
		var receiver map[string]any
		if m, ok := this.(map[string]any); ok {
			receiver = m
		}
		return e.invoke(fn, receiver, args)
	}
	return nil, throwType("%s is not a function", stringify(callee))
}

func (e *evaluator) invoke(fn *function, this map[string]any, args []any) (any, error) {
	frame := newEnvironment(fn.closure)
	if this != nil {
		frame.define("this", this)
	}
	for i, param := range fn.params {
		var v any
		if i < len(args) {
			v = args[i]
		}
		frame.define(param, v)
	}

	if fn.exprBody != nil {
		return e.eval(frame, fn.exprBody)
	}

	for _, s := range fn.body.stmts {
		if err := e.execStmt(frame, s); err != nil {
			if ret, ok := err.(returnSignal); ok {
				return ret.value, nil
			}
			return nil, err
		}
	}
	return nil, nil
}

func (e *evaluator) evalNew(env *environment, node *newExpr) (any, error) {
	callee, err := e.eval(env, node.callee)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(env, node.args)
	if err != nil {
		return nil, err
	}

	switch c := callee.(type) {
	case *builtin:
		return c.call(args)

	case *class:
		instance := make(map[string]any)
		for _, fn := range c.methods {
			instance[fn.name] = &boundMethod{fn: fn, this: instance}
		}
		if c.constructor != nil {
			if _, err := e.invoke(c.constructor, instance, args); err != nil {
				return nil, err
			}
		}
		return instance, nil
	}
	return nil, throwType("%s is not a constructor", stringify(callee))
}

func getMember(obj any, prop string) (any, error) {
	switch o := obj.(type) {
	case map[string]any:
		return o[prop], nil
	case []any:
		if prop == "length" {
			return float64(len(o)), nil
		}
	case string:
		if prop == "length" {
			return float64(len(o)), nil
		}
	case *errorValue:
		switch prop {
		case "message":
			return o.message, nil
		case "name":
			return o.name, nil
		}
		return nil, nil
	case nil:
		return nil, throwType("cannot read property %q of null", prop)
	}
	return nil, nil
}

func getIndex(obj, index any) (any, error) {
	switch container := obj.(type) {
	case []any:
		i, ok := index.(float64)
		if !ok || i < 0 || int(i) >= len(container) {
			return nil, nil
		}
		return container[int(i)], nil
	case map[string]any:
		return container[stringify(index)], nil
	case string:
		i, ok := index.(float64)
		if !ok || i < 0 || int(i) >= len(container) {
			return nil, nil
		}
		return string(container[int(i)]), nil
	case nil:
		return nil, throwType("cannot index null")
	}
	return nil, nil
}

func binaryOp(op string, lhs, rhs any) (any, error) {
	switch op {
	case "+":
		if ls, ok := lhs.(string); ok {
			return ls + stringify(rhs), nil
		}
		if rs, ok := rhs.(string); ok {
			return stringify(lhs) + rs, nil
		}
		return numberOp(op, lhs, rhs)
	case "-", "*", "/", "%":
		return numberOp(op, lhs, rhs)
	case "==", "===":
		return looseEq(lhs, rhs), nil
	case "!=", "!==":
		return !looseEq(lhs, rhs), nil
	case "<", ">", "<=", ">=":
		return compareOp(op, lhs, rhs)
	}
	return nil, throwType("unsupported operator %q", op)
}

func numberOp(op string, lhs, rhs any) (any, error) {
	l, lok := lhs.(float64)
	r, rok := rhs.(float64)
	if !lok || !rok {
		return math.NaN(), nil
	}
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	case "%":
		return math.Mod(l, r), nil
	}
	return nil, throwType("unsupported operator %q", op)
}

func compareOp(op string, lhs, rhs any) (any, error) {
	if ls, lok := lhs.(string); lok {
		if rs, rok := rhs.(string); rok {
			switch op {
			case "<":
				return ls < rs, nil
			case ">":
				return ls > rs, nil
			case "<=":
				return ls <= rs, nil
			case ">=":
				return ls >= rs, nil
			}
		}
	}
	l, lok := lhs.(float64)
	r, rok := rhs.(float64)
	if !lok || !rok {
		return false, nil
	}
	switch op {
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return false, throwType("unsupported operator %q", op)
}
