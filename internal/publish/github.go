package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/everstacklabs/modelrank/internal/catalog"
)

// createPR pushes the catalog branch and opens a GitHub pull request.
func (p *Publisher) createPR(ctx context.Context, results []catalog.WriteResult) (int, error) {
	branch := fmt.Sprintf("modelrank/catalog-%s", time.Now().Format("20060102-150405"))
	message := "chore(catalog): sync ranked model stats"

	repo, err := openRepo(p.cfg.CatalogPath, p.cfg.GitHub.Token)
	if err != nil {
		return 0, err
	}
	if err := repo.checkoutBranch(branch); err != nil {
		return 0, fmt.Errorf("creating branch: %w", err)
	}
	hash, err := repo.commitAll(message)
	if err != nil {
		return 0, err
	}
	if err := repo.push(branch); err != nil {
		return 0, fmt.Errorf("pushing: %w", err)
	}
	slog.Info("pushed catalog branch", "branch", branch, "commit", hash.String()[:8])

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.cfg.GitHub.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	title := message
	body := RenderPRBody(results)

	pr, _, err := client.PullRequests.Create(ctx, p.cfg.GitHub.Owner, p.cfg.GitHub.Repo, &github.NewPullRequest{
		Title: &title,
		Body:  &body,
		Head:  &branch,
		Base:  &p.cfg.GitHub.BaseBranch,
	})
	if err != nil {
		return 0, fmt.Errorf("creating PR: %w", err)
	}

	slog.Info("PR created",
		"number", pr.GetNumber(),
		"url", pr.GetHTMLURL())

	return pr.GetNumber(), nil
}
