package publish

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	authorName  = "modelrank"
	authorEmail = "modelrank@everstack.dev"
)

// gitRepo wraps the catalog checkout for the branch/commit/push cycle.
type gitRepo struct {
	repo     *git.Repository
	worktree *git.Worktree
	token    string
}

func openRepo(path, token string) (*gitRepo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	return &gitRepo{repo: repo, worktree: wt, token: token}, nil
}

// checkoutBranch creates a branch at HEAD and switches to it.
func (g *gitRepo) checkoutBranch(name string) error {
	head, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if err := g.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, head.Hash())); err != nil {
		return fmt.Errorf("creating branch ref: %w", err)
	}
	return g.worktree.Checkout(&git.CheckoutOptions{Branch: branchRef})
}

// commitAll stages every change in the worktree and commits it, returning
// the new commit hash.
func (g *gitRepo) commitAll(message string) (plumbing.Hash, error) {
	if _, err := g.worktree.Add("."); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("staging changes: %w", err)
	}
	hash, err := g.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("committing: %w", err)
	}
	return hash, nil
}

// push pushes the current branch to origin with token auth.
func (g *gitRepo) push(branch string) error {
	spec := gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/heads/%s", branch, branch))
	return g.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{spec},
		Auth: &githttp.BasicAuth{
			Username: "x-access-token",
			Password: g.token,
		},
	})
}
