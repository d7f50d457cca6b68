package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/streamexec/internal/config"
	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
	"github.com/alexisbeaulieu97/streamexec/internal/engine"
	"github.com/alexisbeaulieu97/streamexec/internal/interp"
	"github.com/alexisbeaulieu97/streamexec/internal/logger"
	"github.com/alexisbeaulieu97/streamexec/internal/source"
	"github.com/alexisbeaulieu97/streamexec/internal/tui"
	execerrors "github.com/alexisbeaulieu97/streamexec/pkg/errors"
)

type runOptions struct {
	ConfigPath      string
	ScriptPath      string
	TimeoutMs       int
	ContinueOnError bool
	ChunkSize       int
	GitURL          string
	GitPath         string
	GitRef          string
	Plain           bool
	Verbose         bool
	NonInteractive  bool

	timeoutSet  bool
	continueSet bool
}

var runCmdRunner = runRun

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Execute a statement stream from a file, stdin, or a git repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.ScriptPath = args[0]
			}
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))
			opts.timeoutSet = cmd.Flags().Changed("timeout")
			opts.continueSet = cmd.Flags().Changed("continue-on-error")

			if err := validateRunOptions(opts); err != nil {
				return err
			}

			return runCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.TimeoutMs, "timeout", 0, "Per-statement timeout in milliseconds")
	cmd.Flags().BoolVar(&opts.ContinueOnError, "continue-on-error", false, "Keep executing statements after a failure")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", 0, "Cap stream reads at this many bytes (0 disables)")
	cmd.Flags().StringVar(&opts.GitURL, "git-url", "", "Clone the script from this repository")
	cmd.Flags().StringVar(&opts.GitPath, "git-path", "", "Script path inside the repository")
	cmd.Flags().StringVar(&opts.GitRef, "git-ref", "", "Branch or tag to clone")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Disable the interactive view")

	return cmd
}

func validateRunOptions(opts runOptions) error {
	if opts.GitURL != "" {
		if opts.GitPath == "" {
			return execerrors.NewValidationError("git-path", "required when --git-url is set", nil)
		}
		if opts.ScriptPath != "" {
			return execerrors.NewValidationError("script", "cannot combine a script argument with --git-url", nil)
		}
		return nil
	}
	if opts.ScriptPath == "" {
		return execerrors.NewValidationError("script", "a script path, '-', or --git-url is required", nil)
	}
	return nil
}

func runRun(opts runOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: cfg.Log.Human})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := openSource(ctx, opts)
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck

	var reader io.Reader = src.Reader
	if opts.ChunkSize > 0 {
		reader = source.NewChunkedReader(reader, opts.ChunkSize)
	}

	backend := interp.NewRuntime(interp.Options{ComponentTemplates: cfg.Dialect.ComponentTemplates})
	analyzer := interp.NewAnalyzer(interp.Options{ComponentTemplates: cfg.Dialect.ComponentTemplates})
	lowerer := interp.NewLowerer(interp.Options{ComponentTemplates: cfg.Dialect.ComponentTemplates})

	exec, err := engine.New(backend, analyzer, lowerer, engine.Options{
		InitialBindings: cfg.Bindings,
		Timeout:         time.Duration(cfg.TimeoutMs) * time.Millisecond,
		ContinueOnError: cfg.ContinueOnError,
		Logger:          log,
	})
	if err != nil {
		return err
	}

	run, err := exec.Submit(ctx, reader)
	if err != nil {
		return err
	}

	interactive := !opts.NonInteractive && !opts.Plain
	if interactive {
		return driveInteractive(ctx, cancel, src.Location, run)
	}
	return drivePlain(ctx, run, os.Stdout)
}

func resolveConfig(opts runOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		parsed, err := config.ParseConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	if opts.timeoutSet {
		cfg.TimeoutMs = opts.TimeoutMs
	}
	if opts.continueSet {
		cfg.ContinueOnError = opts.ContinueOnError
	}
	return cfg, nil
}

func openSource(ctx context.Context, opts runOptions) (*source.Source, error) {
	switch {
	case opts.GitURL != "":
		return source.FromGit(ctx, source.GitOptions{URL: opts.GitURL, Path: opts.GitPath, Ref: opts.GitRef})
	case opts.ScriptPath == "-":
		return source.FromStdin(), nil
	default:
		return source.FromFile(opts.ScriptPath)
	}
}

func driveInteractive(ctx context.Context, cancel context.CancelFunc, location string, run *engine.Run) error {
	program := tea.NewProgram(tui.NewModel(location, cancel))

	go func() {
		for {
			ev, ok, err := run.Next(ctx)
			if err != nil || !ok {
				break
			}
			program.Send(tui.EventMsg{Event: ev})
		}
		result, err := run.Wait(ctx)
		if err != nil {
			program.Send(tea.QuitMsg{})
			return
		}
		program.Send(tui.DoneMsg{Result: result})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(tui.Model); ok {
		if m.IsCancelled() {
			return execerrors.NewInvocationError("run interrupted")
		}
		if res := m.Result(); res.Err != nil {
			return res.Err
		}
	}
	return nil
}

func drivePlain(ctx context.Context, run *engine.Run, out io.Writer) error {
	for {
		ev, ok, err := run.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		printEvent(out, ev)
	}

	result, err := run.Wait(ctx)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}
	return nil
}

func printEvent(out io.Writer, ev script.Event) {
	if logs := strings.TrimRight(ev.Logs, "\n"); logs != "" {
		fmt.Fprintln(out, logs)
	}
	if ev.Err != nil {
		fmt.Fprintf(out, "line %d: %s\n", ev.Err.Line, ev.Err.Message)
	}
}
