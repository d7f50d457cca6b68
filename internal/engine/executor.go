package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
	"github.com/alexisbeaulieu97/streamexec/internal/logger"
	"github.com/alexisbeaulieu97/streamexec/internal/ports"
	execerrors "github.com/alexisbeaulieu97/streamexec/pkg/errors"
)

// DefaultTimeout bounds each statement's execution when Options.Timeout is
// left zero.
const DefaultTimeout = 30 * time.Second

// readChunkSize is the upper bound on a single stream read. Statement
// boundaries never depend on it; the scanner is chunk-agnostic.
const readChunkSize = 4096

// errStopRun aborts scanning after an error under the stop-on-error policy.
var errStopRun = errors.New("stop run")

// Options configures an Executor instance.
type Options struct {
	// InitialBindings seeds the persistent scope at creation time.
	InitialBindings map[string]any
	// Timeout bounds each statement's execution. Zero means DefaultTimeout.
	Timeout time.Duration
	// ContinueOnError keeps executing statements after a failure. The
	// governing error on the terminal result is still the first one.
	ContinueOnError bool
	// Logger receives engine diagnostics. Nil means no logging.
	Logger *logger.Logger
}

// Executor incrementally executes program source arriving as a character
// stream. Statements are detected, lowered, and executed one at a time in a
// persistent scope that survives across runs. At most one run is active per
// instance.
type Executor struct {
	analyzer ports.Analyzer
	lowerer  ports.Lowerer
	scope    ports.Scope
	opts     Options
	log      *logger.Logger

	running atomic.Bool
}

// New creates an executor wired to the given dialect backend. The persistent
// scope is created once here and reused by every subsequent run.
func New(runtime ports.Runtime, analyzer ports.Analyzer, lowerer ports.Lowerer, opts Options) (*Executor, error) {
	if opts.Timeout < 0 {
		return nil, execerrors.NewValidationError("timeout", "must not be negative", nil)
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	scope, err := runtime.NewScope(opts.InitialBindings)
	if err != nil {
		return nil, err
	}

	return &Executor{
		analyzer: analyzer,
		lowerer:  lowerer,
		scope:    scope,
		opts:     opts,
		log:      log.WithComponent("engine"),
	}, nil
}

// Submit starts one run over the given source stream. It returns immediately;
// execution proceeds in the background while the returned Run hands out
// events lazily and resolves the terminal result. Submitting while a prior
// run is still active fails synchronously with an InvocationError.
func (e *Executor) Submit(ctx context.Context, src io.Reader) (*Run, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, execerrors.NewInvocationError("execution already in progress")
	}

	run := newRun()
	go e.drive(ctx, src, run)
	return run, nil
}

// IsRunning reports whether a run is currently active on this instance.
func (e *Executor) IsRunning() bool {
	return e.running.Load()
}

// Snapshot returns the live persistent name→value mapping.
func (e *Executor) Snapshot() map[string]any {
	return e.scope.Snapshot()
}

// drive is the run controller: it owns the scan loop, the error policy, the
// end-of-stream flush, and finalization.
func (e *Executor) drive(ctx context.Context, src io.Reader, run *Run) {
	scanner := newBoundaryScanner(e.analyzer)
	pipe := &statementPipeline{
		lowerer: e.lowerer,
		scope:   e.scope,
		timeout: e.opts.Timeout,
		log:     e.log,
	}

	var aggregate strings.Builder
	var governing *script.Error

	record := func(ev script.Event) {
		aggregate.WriteString(ev.Logs)
		if ev.Err != nil && governing == nil {
			governing = ev.Err
		}
		run.push(ev)
	}

	emit := func(stmt script.Statement, analysis ports.Analysis) error {
		e.log.WithFields(map[string]any{"line": stmt.Line}).Debug("executing statement")
		ev := pipe.run(ctx, stmt, analysis.Bindings)
		record(ev)
		if ev.Err != nil && !e.opts.ContinueOnError {
			return errStopRun
		}
		return nil
	}

	stopped := false
	flush := true

	buf := make([]byte, readChunkSize)
	for !stopped {
		if ctx.Err() != nil {
			// Caller abandoned the stream; never execute residual text.
			flush = false
			break
		}

		n, err := src.Read(buf)
		if n > 0 {
			if feedErr := scanner.feed(buf[:n], emit); feedErr != nil {
				stopped = true
				flush = false
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			e.log.Error(err, "source stream failed; treating as end of stream")
			break
		}
	}

	if flush {
		incomplete, flushErr := scanner.flush(emit)
		if incomplete != nil {
			record(script.Event{
				Statement: incomplete.Text,
				Line:      incomplete.Line,
				Err:       script.NewParseError(script.IncompleteStatementMessage, incomplete.Line),
			})
		}
		_ = flushErr // errStopRun from the final statement; nothing left to stop.
	}

	// Release the guard before resolving the result so a caller woken by
	// Wait can immediately submit the next stream.
	e.running.Store(false)
	run.finish(script.Result{Logs: aggregate.String(), Err: governing})
}
