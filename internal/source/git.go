package source

import (
	"context"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func cloneRepo(ctx context.Context, dir string, opts GitOptions) error {
	cloneOpts := &git.CloneOptions{
		URL:   opts.URL,
		Depth: 1,
	}
	if opts.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
	}
	_, err := git.PlainCloneContext(ctx, dir, false, cloneOpts)
	return err
}
