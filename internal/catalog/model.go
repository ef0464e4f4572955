// Package catalog converts selected model rows into the model-catalog YAML
// schema and writes them with a structure-preserving merge.
package catalog

import (
	"strings"

	"github.com/everstacklabs/modelrank/internal/model"
)

// Model represents a model YAML file in the catalog.
// Fields match the existing catalog schema exactly.
type Model struct {
	Name         string     `yaml:"name"`
	DisplayName  string     `yaml:"display_name"`
	Family       string     `yaml:"family"`
	Status       string     `yaml:"status"`
	Cost         *Cost      `yaml:"cost,omitempty"`
	Limits       Limits     `yaml:"limits"`
	Capabilities []string   `yaml:"capabilities"`
	Modalities   Modalities `yaml:"modalities"`
}

// Cost represents model pricing.
type Cost struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// Limits represents model token limits.
type Limits struct {
	MaxTokens           int `yaml:"max_tokens"`
	MaxCompletionTokens int `yaml:"max_completion_tokens,omitempty"`
}

// Modalities represents input/output modalities.
type Modalities struct {
	Input  []string `yaml:"input"`
	Output []string `yaml:"output"`
}

// FromSelected converts a selected row into a catalog model. Rows without
// an id or provider cannot be placed in the catalog tree and are skipped.
func FromSelected(sel model.SelectedModel) (provider string, m *Model, ok bool) {
	if sel.ID == "" || sel.Provider == "" {
		return "", nil, false
	}
	name := sel.ID[strings.Index(sel.ID, "/")+1:]
	if name == "" {
		return "", nil, false
	}

	displayName := sel.Name
	if displayName == "" {
		displayName = name
	}

	m = &Model{
		Name:         name,
		DisplayName:  displayName,
		Family:       familyOf(name),
		Status:       "stable",
		Cost:         costOf(sel.Cost),
		Limits:       limitsOf(sel.ContextWindow),
		Capabilities: capabilitiesOf(sel),
		Modalities:   modalitiesOf(sel.Modalities),
	}
	return sel.Provider, m, true
}

// familyOf groups variants: the leading name token, plus the generation
// number when one immediately follows ("grok-4-fast" → "grok-4").
func familyOf(name string) string {
	parts := strings.Split(name, "-")
	if len(parts) >= 2 && parts[1] != "" && parts[1][0] >= '0' && parts[1][0] <= '9' {
		return parts[0] + "-" + parts[1]
	}
	return parts[0]
}

// costOf converts registry per-1M pricing to the catalog's per-1K schema.
func costOf(c *model.RegistryCost) *Cost {
	if c == nil || (c.Input == nil && c.Output == nil) {
		return nil
	}
	out := &Cost{}
	if c.Input != nil {
		out.InputPer1K = *c.Input / 1000
	}
	if c.Output != nil {
		out.OutputPer1K = *c.Output / 1000
	}
	return out
}

func limitsOf(l *model.RegistryLimit) Limits {
	var limits Limits
	if l == nil {
		return limits
	}
	if l.Context != nil {
		limits.MaxTokens = *l.Context
	}
	if l.Output != nil {
		limits.MaxCompletionTokens = *l.Output
	}
	return limits
}

func capabilitiesOf(sel model.SelectedModel) []string {
	caps := []string{"chat", "streaming"}
	if sel.Reasoning != nil && *sel.Reasoning {
		caps = append(caps, "reasoning")
	}
	if sel.Modalities != nil {
		for _, in := range sel.Modalities.Input {
			if in == "image" {
				caps = append(caps, "vision")
				break
			}
		}
	}
	return caps
}

func modalitiesOf(m *model.Modalities) Modalities {
	if m == nil || (len(m.Input) == 0 && len(m.Output) == 0) {
		return Modalities{Input: []string{"text"}, Output: []string{"text"}}
	}
	return Modalities{Input: m.Input, Output: m.Output}
}
