package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/streamexec/internal/config"
	"github.com/alexisbeaulieu97/streamexec/internal/engine"
	"github.com/alexisbeaulieu97/streamexec/internal/interp"
	"github.com/alexisbeaulieu97/streamexec/internal/logger"
)

const (
	replPrompt     = "> "
	replContinued  = "… "
	replHistoryCap = 512
)

type replOptions struct {
	ConfigPath string
	Verbose    bool
}

func newReplCmd(root *rootFlags) *cobra.Command {
	opts := replOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively execute statements in a persistent scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return runRepl(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")

	return cmd
}

func runRepl(opts replOptions, out io.Writer) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		parsed, err := config.ParseConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = parsed
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	dialect := interp.Options{ComponentTemplates: cfg.Dialect.ComponentTemplates}
	analyzer := interp.NewAnalyzer(dialect)

	exec, err := engine.New(interp.NewRuntime(dialect), analyzer, interp.NewLowerer(dialect), engine.Options{
		InitialBindings: cfg.Bindings,
		Timeout:         time.Duration(cfg.TimeoutMs) * time.Millisecond,
		ContinueOnError: true,
		Logger:          log,
	})
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck
	line.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	loadHistory(line, historyPath)
	defer saveHistory(line, historyPath)

	ctx := context.Background()
	var pending strings.Builder

	for {
		prompt := replPrompt
		if pending.Len() > 0 {
			prompt = replContinued
		}

		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			pending.Reset()
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		pending.WriteString(input)
		pending.WriteByte('\n')

		text := strings.TrimSpace(pending.String())
		if text == "" {
			pending.Reset()
			continue
		}
		if !analyzer.Analyze(text).Complete {
			// Wait for the rest of the statement.
			continue
		}

		line.AppendHistory(text)
		pending.Reset()

		if err := evalLine(ctx, exec, text, out); err != nil {
			return err
		}
	}
}

// evalLine executes one complete input in the shared scope. Statement
// failures are printed, not returned; the session keeps going.
func evalLine(ctx context.Context, exec *engine.Executor, text string, out io.Writer) error {
	run, err := exec.Submit(ctx, strings.NewReader(text))
	if err != nil {
		return err
	}

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

	_, err = run.Wait(ctx)
	return err
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".streamexec_history")
}

func loadHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck
	_, _ = line.ReadHistory(f)
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck
	_, _ = line.WriteHistory(f)
}
