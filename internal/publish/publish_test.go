package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/everstacklabs/modelrank/internal/config"
	"github.com/everstacklabs/modelrank/internal/model"
)

type fakeSource struct {
	payload model.SelectedPayload
}

func (f *fakeSource) Selected(ctx context.Context, id string) model.SelectedPayload {
	return f.payload
}

func fptr(v float64) *float64 { return &v }

func selectedRows() []model.SelectedModel {
	return []model.SelectedModel{
		{
			ID:          "x-ai/grok-4-fast",
			Name:        "Grok 4 Fast",
			Provider:    "x-ai",
			ReleaseDate: "2025-09-19",
			Cost:        &model.RegistryCost{Input: fptr(0.2), Output: fptr(0.5)},
		},
		{
			// No id: cannot be placed in the catalog tree.
			Name: "Mystery Model",
		},
	}
}

func TestRunDryRunWritesCatalogOnly(t *testing.T) {
	catalogDir := t.TempDir()
	cfg := &config.Config{CatalogPath: catalogDir}
	src := &fakeSource{payload: model.SelectedPayload{Models: selectedRows()}}

	p := New(cfg, src)
	result, err := p.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.SkipReason != "" {
		t.Fatalf("unexpected skip: %q", result.SkipReason)
	}
	if len(result.Written) != 1 {
		t.Fatalf("written = %d, want 1", len(result.Written))
	}
	if result.SkippedRows != 1 {
		t.Errorf("skipped rows = %d, want 1", result.SkippedRows)
	}
	if result.PRNumber != 0 {
		t.Error("dry run must not open a PR")
	}

	path := filepath.Join(catalogDir, "providers", "x-ai", "models", "grok-4-fast.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("catalog file not written: %v", err)
	}
}

func TestRunSkipsWhenNothingSelected(t *testing.T) {
	cfg := &config.Config{CatalogPath: t.TempDir()}
	p := New(cfg, &fakeSource{})

	result, err := p.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.SkipReason == "" {
		t.Error("empty payload should skip the run")
	}
}

func TestRunFailsOnValidationErrors(t *testing.T) {
	rows := selectedRows()
	rows[0].Cost = &model.RegistryCost{Input: fptr(-5)}

	cfg := &config.Config{CatalogPath: t.TempDir()}
	p := New(cfg, &fakeSource{payload: model.SelectedPayload{Models: rows}})

	if _, err := p.Run(context.Background(), true); err == nil {
		t.Fatal("validation errors should fail the run")
	}
}

func TestRunSecondPassReportsNoChanges(t *testing.T) {
	cfg := &config.Config{CatalogPath: t.TempDir()}
	src := &fakeSource{payload: model.SelectedPayload{Models: selectedRows()}}
	p := New(cfg, src)

	if _, err := p.Run(context.Background(), true); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := p.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.SkipReason == "" {
		t.Error("unchanged catalog should skip with a reason")
	}
	if second.HasChanges() {
		t.Error("second pass should detect no changes")
	}
}
