package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FieldChange records a single field change for change reporting.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// WriteResult reports what happened when a model was written.
type WriteResult struct {
	Provider string
	Name     string
	Path     string
	IsNew    bool
	Changes  []FieldChange
}

// Writer writes model YAML files using a smart merge strategy: manually
// added fields and the key ordering of existing files are preserved, and
// only fields the pipeline has authoritative data for are updated.
type Writer struct {
	basePath string
}

// NewWriter creates a Writer rooted at the catalog checkout.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath}
}

// WriteModel merges a generated model into the catalog tree at
// providers/<provider>/models/<name>.yaml.
func (w *Writer) WriteModel(provider string, generated *Model) (*WriteResult, error) {
	modelsDir := filepath.Join(w.basePath, "providers", provider, "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating models dir: %w", err)
	}

	filePath := filepath.Join(modelsDir, generated.Name+".yaml")
	result := &WriteResult{Provider: provider, Name: generated.Name, Path: filePath}

	existingData, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		result.IsNew = true
		return result, w.writeNewModel(filePath, generated)
	} else if err != nil {
		return nil, fmt.Errorf("reading existing file: %w", err)
	}

	// Parse existing as a node tree to preserve structure and unknown keys.
	var existingDoc yaml.Node
	if err := yaml.Unmarshal(existingData, &existingDoc); err != nil {
		return nil, fmt.Errorf("parsing existing YAML: %w", err)
	}
	var existingModel Model
	if err := yaml.Unmarshal(existingData, &existingModel); err != nil {
		return nil, fmt.Errorf("parsing existing model: %w", err)
	}

	result.Changes = computeChanges(&existingModel, generated)
	if len(result.Changes) == 0 {
		return result, nil
	}

	generatedData, err := yaml.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("marshaling generated model: %w", err)
	}
	var generatedDoc yaml.Node
	if err := yaml.Unmarshal(generatedData, &generatedDoc); err != nil {
		return nil, fmt.Errorf("parsing generated YAML: %w", err)
	}

	merged := mergeNodes(&existingDoc, &generatedDoc)
	out, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshaling merged YAML: %w", err)
	}
	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		return nil, fmt.Errorf("writing merged file: %w", err)
	}
	return result, nil
}

func (w *Writer) writeNewModel(path string, m *Model) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling model: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// mergeNodes overlays src mapping keys onto dst mapping, preserving dst
// order and any keys in dst not present in src.
func mergeNodes(dst, src *yaml.Node) *yaml.Node {
	if dst.Kind == yaml.DocumentNode && len(dst.Content) > 0 {
		dst = dst.Content[0]
	}
	if src.Kind == yaml.DocumentNode && len(src.Content) > 0 {
		src = src.Content[0]
	}
	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return src
	}

	srcMap := make(map[string]*yaml.Node)
	for i := 0; i+1 < len(src.Content); i += 2 {
		srcMap[src.Content[i].Value] = src.Content[i+1]
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(dst.Content); i += 2 {
		key := dst.Content[i].Value
		if srcVal, ok := srcMap[key]; ok {
			dst.Content[i+1] = srcVal
			seen[key] = true
		}
	}
	for i := 0; i+1 < len(src.Content); i += 2 {
		key := src.Content[i].Value
		if !seen[key] {
			dst.Content = append(dst.Content, src.Content[i], src.Content[i+1])
		}
	}
	return dst
}

func computeChanges(existing, generated *Model) []FieldChange {
	var changes []FieldChange

	if generated.DisplayName != "" && existing.DisplayName != generated.DisplayName {
		changes = append(changes, FieldChange{"display_name", existing.DisplayName, generated.DisplayName})
	}
	if generated.Family != "" && existing.Family != generated.Family {
		changes = append(changes, FieldChange{"family", existing.Family, generated.Family})
	}

	// Zero generated cost means missing pricing upstream, not a free model.
	if generated.Cost != nil && (generated.Cost.InputPer1K != 0 || generated.Cost.OutputPer1K != 0) {
		if existing.Cost == nil {
			changes = append(changes, FieldChange{"cost", nil, generated.Cost})
		} else {
			if existing.Cost.InputPer1K != generated.Cost.InputPer1K {
				changes = append(changes, FieldChange{"cost.input_per_1k", existing.Cost.InputPer1K, generated.Cost.InputPer1K})
			}
			if existing.Cost.OutputPer1K != generated.Cost.OutputPer1K {
				changes = append(changes, FieldChange{"cost.output_per_1k", existing.Cost.OutputPer1K, generated.Cost.OutputPer1K})
			}
		}
	}

	if generated.Limits.MaxTokens != 0 && existing.Limits.MaxTokens != generated.Limits.MaxTokens {
		changes = append(changes, FieldChange{"limits.max_tokens", existing.Limits.MaxTokens, generated.Limits.MaxTokens})
	}
	if generated.Limits.MaxCompletionTokens != 0 && existing.Limits.MaxCompletionTokens != generated.Limits.MaxCompletionTokens {
		changes = append(changes, FieldChange{"limits.max_completion_tokens", existing.Limits.MaxCompletionTokens, generated.Limits.MaxCompletionTokens})
	}

	if capabilitiesAdded(existing.Capabilities, generated.Capabilities) {
		changes = append(changes, FieldChange{"capabilities", existing.Capabilities, generated.Capabilities})
	}

	return changes
}

// capabilitiesAdded reports whether the generated model carries a
// capability the existing file lacks. Removals are left to humans.
func capabilitiesAdded(existing, generated []string) bool {
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c] = true
	}
	for _, c := range generated {
		if !have[c] {
			return true
		}
	}
	return false
}
