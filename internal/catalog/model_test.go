package catalog

import (
	"reflect"
	"testing"

	"github.com/everstacklabs/modelrank/internal/model"
)

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }
func iptr(v int) *int         { return &v }

func selectedGrok() model.SelectedModel {
	return model.SelectedModel{
		ID:        "x-ai/grok-4-fast",
		Name:      "Grok 4 Fast",
		Provider:  "x-ai",
		Reasoning: bptr(true),
		Cost:      &model.RegistryCost{Input: fptr(0.2), Output: fptr(0.5)},
		ContextWindow: &model.RegistryLimit{
			Context: iptr(2_000_000),
			Output:  iptr(30_000),
		},
		Modalities: &model.Modalities{Input: []string{"text", "image"}, Output: []string{"text"}},
	}
}

func TestFromSelected(t *testing.T) {
	provider, m, ok := FromSelected(selectedGrok())
	if !ok {
		t.Fatal("expected a catalog model")
	}
	if provider != "x-ai" {
		t.Errorf("provider = %q", provider)
	}
	if m.Name != "grok-4-fast" {
		t.Errorf("name = %q, want id tail", m.Name)
	}
	if m.DisplayName != "Grok 4 Fast" {
		t.Errorf("display name = %q", m.DisplayName)
	}
	if m.Family != "grok-4" {
		t.Errorf("family = %q, want grok-4", m.Family)
	}
	if m.Cost == nil || m.Cost.InputPer1K != 0.0002 || m.Cost.OutputPer1K != 0.0005 {
		t.Errorf("cost = %+v, want per-1k conversion", m.Cost)
	}
	if m.Limits.MaxTokens != 2_000_000 || m.Limits.MaxCompletionTokens != 30_000 {
		t.Errorf("limits = %+v", m.Limits)
	}
}

func TestFromSelectedSkipsIncompleteRows(t *testing.T) {
	noID := selectedGrok()
	noID.ID = ""
	if _, _, ok := FromSelected(noID); ok {
		t.Error("row without id should be skipped")
	}

	noProvider := selectedGrok()
	noProvider.Provider = ""
	if _, _, ok := FromSelected(noProvider); ok {
		t.Error("row without provider should be skipped")
	}
}

func TestFromSelectedCapabilities(t *testing.T) {
	provider, m, ok := FromSelected(selectedGrok())
	if !ok || provider == "" {
		t.Fatal("expected a catalog model")
	}
	want := []string{"chat", "streaming", "reasoning", "vision"}
	if !reflect.DeepEqual(m.Capabilities, want) {
		t.Errorf("capabilities = %v, want %v", m.Capabilities, want)
	}

	plain := selectedGrok()
	plain.Reasoning = bptr(false)
	plain.Modalities = &model.Modalities{Input: []string{"text"}, Output: []string{"text"}}
	_, m, _ = FromSelected(plain)
	want = []string{"chat", "streaming"}
	if !reflect.DeepEqual(m.Capabilities, want) {
		t.Errorf("capabilities = %v, want %v", m.Capabilities, want)
	}
}

func TestFamilyOf(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"grok-4-fast", "grok-4"},
		{"gpt-5", "gpt-5"},
		{"claude-sonnet-4", "claude"},
		{"gemini-2.5-pro", "gemini-2.5"},
		{"mistral", "mistral"},
	}
	for _, tc := range cases {
		if got := familyOf(tc.name); got != tc.want {
			t.Errorf("familyOf(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCostOfNilWhenMissing(t *testing.T) {
	if costOf(nil) != nil {
		t.Error("nil registry cost should produce nil catalog cost")
	}
	if costOf(&model.RegistryCost{}) != nil {
		t.Error("cost with no prices should produce nil catalog cost")
	}
}

func TestModalitiesOfDefaultsToText(t *testing.T) {
	got := modalitiesOf(nil)
	if !reflect.DeepEqual(got.Input, []string{"text"}) || !reflect.DeepEqual(got.Output, []string{"text"}) {
		t.Errorf("modalities = %+v, want text/text default", got)
	}
}
