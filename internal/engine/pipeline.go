package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
	"github.com/alexisbeaulieu97/streamexec/internal/logger"
	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

// statementPipeline turns one complete statement into exactly one event,
// hoisting declared bindings into the persistent scope on success.
type statementPipeline struct {
	lowerer ports.Lowerer
	scope   ports.Scope
	timeout time.Duration
	log     *logger.Logger
}

// logBuffer collects statement output. The executing goroutine may outlive a
// timed-out statement and keep appending, so access is guarded.
type logBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *logBuffer) append(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.WriteString(text)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

type execOutcome struct {
	values map[string]any
	err    error
}

// run drives lower → wrap → execute-under-timeout → hoist for one statement.
// Bindings arrive pre-extracted from the boundary pass, so the analyzer is
// not consulted again.
func (p *statementPipeline) run(ctx context.Context, stmt script.Statement, bindings script.Bindings) script.Event {
	ev := script.Event{Statement: stmt.Text, Line: stmt.Line}

	lowered, err := p.lowerer.Lower(stmt.Text)
	if err != nil {
		// A lowering rejection after a successful completeness check is
		// still a parse failure, reported at the statement's start line.
		p.log.WithFields(map[string]any{"line": stmt.Line}).Debug("lowering failed")
		ev.Err = script.NewError(script.KindParse, err, stmt.Line)
		return ev
	}

	unit := ports.ExecUnit{Source: lowered, Hoist: bindings.Names()}

	logs := &logBuffer{}
	p.scope.SetSink(logs.append)

	execCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	settled := make(chan execOutcome, 1)
	go func() {
		values, execErr := p.scope.Exec(execCtx, unit)
		settled <- execOutcome{values: values, err: execErr}
	}()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case out := <-settled:
		if out.err != nil {
			ev.Err = script.NewError(script.KindRuntime, out.err, stmt.Line)
			break
		}
		for _, name := range unit.Hoist {
			if value, ok := out.values[name]; ok {
				p.scope.Bind(name, value)
			}
		}
	case <-timer.C:
		// Abandon the unit: cancel so pending suspension points unwind, but
		// a purely synchronous body cannot be preempted.
		cancel()
		ev.Err = script.NewError(script.KindTimeout,
			fmt.Errorf("execution timed out after %s", p.timeout), stmt.Line)
	}

	ev.Logs = logs.String()
	return ev
}
