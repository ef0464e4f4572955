// Package publish writes selected model rows into the catalog checkout
// and opens a pull request with the resulting changes.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/everstacklabs/modelrank/internal/catalog"
	"github.com/everstacklabs/modelrank/internal/config"
	"github.com/everstacklabs/modelrank/internal/model"
	"github.com/everstacklabs/modelrank/internal/validate"
)

// SelectedSource produces the rows to publish. Satisfied by stats.Service.
type SelectedSource interface {
	Selected(ctx context.Context, id string) model.SelectedPayload
}

// Publisher orchestrates the selected -> catalog -> PR workflow.
type Publisher struct {
	cfg    *config.Config
	source SelectedSource
}

// New creates a Publisher backed by the given selected-row source.
func New(cfg *config.Config, source SelectedSource) *Publisher {
	return &Publisher{cfg: cfg, source: source}
}

// Result holds the outcome of one publish run. A non-empty SkipReason
// means the run ended early without producing a PR.
type Result struct {
	Written     []catalog.WriteResult
	SkippedRows int
	PRNumber    int
	SkipReason  string
}

// HasChanges reports whether any catalog file was created or modified.
func (r *Result) HasChanges() bool {
	for _, w := range r.Written {
		if w.IsNew || len(w.Changes) > 0 {
			return true
		}
	}
	return false
}

// Run executes the publish workflow. With dryRun set, catalog files are
// still written locally but no branch, commit, or PR is produced.
func (p *Publisher) Run(ctx context.Context, dryRun bool) (*Result, error) {
	payload := p.source.Selected(ctx, "")
	if len(payload.Models) == 0 {
		return &Result{SkipReason: "no selected models available"}, nil
	}

	// Rows that can't be placed in the catalog tree are skipped, not
	// published; only publishable rows gate the run.
	result := &Result{}
	type placed struct {
		sel      model.SelectedModel
		provider string
		model    *catalog.Model
	}
	var rows []placed
	for _, sel := range payload.Models {
		provider, m, ok := catalog.FromSelected(sel)
		if !ok {
			result.SkippedRows++
			continue
		}
		rows = append(rows, placed{sel, provider, m})
	}

	publishable := make([]model.SelectedModel, 0, len(rows))
	for _, r := range rows {
		publishable = append(publishable, r.sel)
	}
	valResult := validate.ValidateSelected(publishable)
	if valResult.HasErrors() {
		return nil, fmt.Errorf("validation failed:\n%s", validate.FormatResult(valResult))
	}
	for _, w := range valResult.Warnings() {
		slog.Warn("validation warning", "model", w.Model, "field", w.Field, "message", w.Message)
	}

	writer := catalog.NewWriter(p.cfg.CatalogPath)
	for _, r := range rows {
		wr, err := writer.WriteModel(r.provider, r.model)
		if err != nil {
			return nil, fmt.Errorf("writing model %s: %w", r.sel.ID, err)
		}
		result.Written = append(result.Written, *wr)
	}

	slog.Info("catalog written",
		"models", len(result.Written),
		"skipped", result.SkippedRows)

	if !result.HasChanges() {
		result.SkipReason = "catalog already up to date"
		return result, nil
	}

	if dryRun {
		slog.Info("dry run, skipping branch and PR")
		return result, nil
	}
	if p.cfg.GitHub.Token == "" {
		slog.Info("no GitHub token configured, skipping PR")
		return result, nil
	}

	prNum, err := p.createPR(ctx, result.Written)
	if err != nil {
		return nil, err
	}
	result.PRNumber = prNum
	return result, nil
}
