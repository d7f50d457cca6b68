package source

import (
	"context"
	"io"
	"os"
	"path/filepath"

	execerrors "github.com/alexisbeaulieu97/streamexec/pkg/errors"
)

// Source yields a program stream for the executor. Close releases any
// backing resources once the run is finished with the reader.
type Source struct {
	Location string
	Reader   io.Reader
	closers  []func() error
}

// Close releases the source's backing resources.
func (s *Source) Close() error {
	var first error
	for _, fn := range s.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FromFile opens a program file for streaming.
func FromFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, execerrors.NewSourceError(path, err)
	}
	return &Source{
		Location: path,
		Reader:   f,
		closers:  []func() error{f.Close},
	}, nil
}

// FromStdin streams the process's standard input.
func FromStdin() *Source {
	return &Source{Location: "stdin", Reader: os.Stdin}
}

// GitOptions locates a program inside a git repository.
type GitOptions struct {
	// URL is the repository to clone.
	URL string
	// Path is the program file within the repository.
	Path string
	// Ref is an optional branch or tag name; empty means the default branch.
	Ref string
}

// FromGit clones the repository into a temporary directory and opens the
// program file from it. The clone is removed when the source is closed.
func FromGit(ctx context.Context, opts GitOptions) (*Source, error) {
	dir, err := os.MkdirTemp("", "streamexec-git-*")
	if err != nil {
		return nil, execerrors.NewSourceError(opts.URL, err)
	}

	if err := cloneRepo(ctx, dir, opts); err != nil {
		_ = os.RemoveAll(dir)
		return nil, execerrors.NewSourceError(opts.URL, err)
	}

	path := filepath.Join(dir, filepath.Clean(opts.Path))
	f, err := os.Open(path)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, execerrors.NewSourceError(opts.URL, err)
	}

	return &Source{
		Location: opts.URL,
		Reader:   f,
		closers: []func() error{
			f.Close,
			func() error { return os.RemoveAll(dir) },
		},
	}, nil
}
