package publish

import (
	"strings"
	"testing"

	"github.com/everstacklabs/modelrank/internal/catalog"
)

func sampleResults() []catalog.WriteResult {
	return []catalog.WriteResult{
		{Provider: "x-ai", Name: "grok-4-fast", IsNew: true},
		{Provider: "openai", Name: "gpt-5", Changes: []catalog.FieldChange{
			{Field: "display_name", OldValue: "GPT-5", NewValue: "GPT-5.1"},
		}},
		{Provider: "anthropic", Name: "claude-sonnet-4"},
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleResults())

	if !strings.Contains(out, "1 new, 1 updated, 1 unchanged") {
		t.Errorf("summary counts missing: %q", out)
	}
	if !strings.Contains(out, "+ x-ai/grok-4-fast") {
		t.Errorf("new model line missing: %q", out)
	}
	if !strings.Contains(out, "~ openai/gpt-5") {
		t.Errorf("updated model line missing: %q", out)
	}
	if !strings.Contains(out, "display_name: GPT-5 -> GPT-5.1") {
		t.Errorf("change detail missing: %q", out)
	}
	if strings.Contains(out, "claude-sonnet-4") {
		t.Errorf("unchanged models should not be listed: %q", out)
	}
}

func TestRenderPRBody(t *testing.T) {
	body := RenderPRBody(sampleResults())

	if !strings.Contains(body, "### New models (1)") {
		t.Errorf("new models section missing: %q", body)
	}
	if !strings.Contains(body, "`x-ai/grok-4-fast`") {
		t.Errorf("new model entry missing: %q", body)
	}
	if !strings.Contains(body, "### Updated models (1)") {
		t.Errorf("updated models section missing: %q", body)
	}
	if !strings.Contains(body, "| `openai/gpt-5` | display_name | GPT-5 | GPT-5.1 |") {
		t.Errorf("change table row missing: %q", body)
	}
}

func TestRenderPRBodyNoChanges(t *testing.T) {
	body := RenderPRBody([]catalog.WriteResult{{Provider: "x-ai", Name: "grok-4-fast"}})
	if strings.Contains(body, "### New models") || strings.Contains(body, "### Updated models") {
		t.Errorf("empty sections should be omitted: %q", body)
	}
}
