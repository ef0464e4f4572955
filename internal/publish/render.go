package publish

import (
	"fmt"
	"strings"

	"github.com/everstacklabs/modelrank/internal/catalog"
)

// RenderSummary produces a terminal-friendly summary of catalog writes.
func RenderSummary(results []catalog.WriteResult) string {
	var b strings.Builder

	created, updated, unchanged := partition(results)
	fmt.Fprintf(&b, "catalog sync: %d new, %d updated, %d unchanged\n", len(created), len(updated), len(unchanged))

	for _, r := range created {
		fmt.Fprintf(&b, "  + %s/%s\n", r.Provider, r.Name)
	}
	for _, r := range updated {
		fmt.Fprintf(&b, "  ~ %s/%s\n", r.Provider, r.Name)
		for _, c := range r.Changes {
			fmt.Fprintf(&b, "      %s: %v -> %v\n", c.Field, c.OldValue, c.NewValue)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderPRBody produces the markdown body for a catalog update PR.
func RenderPRBody(results []catalog.WriteResult) string {
	var b strings.Builder

	created, updated, _ := partition(results)

	b.WriteString("## Model catalog update\n\n")
	b.WriteString("Automated update from the model ranking pipeline.\n\n")

	if len(created) > 0 {
		fmt.Fprintf(&b, "### New models (%d)\n\n", len(created))
		for _, r := range created {
			fmt.Fprintf(&b, "- `%s/%s`\n", r.Provider, r.Name)
		}
		b.WriteString("\n")
	}

	if len(updated) > 0 {
		fmt.Fprintf(&b, "### Updated models (%d)\n\n", len(updated))
		b.WriteString("| Model | Field | Old | New |\n")
		b.WriteString("|-------|-------|-----|-----|\n")
		for _, r := range updated {
			for _, c := range r.Changes {
				fmt.Fprintf(&b, "| `%s/%s` | %s | %v | %v |\n", r.Provider, r.Name, c.Field, c.OldValue, c.NewValue)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	b.WriteString("Review pricing and limit changes before merging.\n")

	return b.String()
}

func partition(results []catalog.WriteResult) (created, updated, unchanged []catalog.WriteResult) {
	for _, r := range results {
		switch {
		case r.IsNew:
			created = append(created, r)
		case len(r.Changes) > 0:
			updated = append(updated, r)
		default:
			unchanged = append(unchanged, r)
		}
	}
	return created, updated, unchanged
}
