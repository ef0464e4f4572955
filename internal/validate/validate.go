// Package validate checks the selected payload before it is consumed or
// published. Errors block publishing; warnings are reported but don't.
package validate

import (
	"fmt"
	"strings"

	"github.com/everstacklabs/modelrank/internal/model"
)

// Severity classifies validation issues.
type Severity int

const (
	SeverityError   Severity = iota // Blocks publishing
	SeverityWarning                 // Reported but doesn't block
)

// Issue represents a single validation problem.
type Issue struct {
	Severity Severity
	Model    string
	Field    string
	Message  string
}

func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s: %s", sev, i.Model, i.Field, i.Message)
}

// Result holds all validation issues.
type Result struct {
	Issues []Issue
}

// HasErrors returns true if there are any blocking errors.
func (r *Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (r *Result) Errors() []Issue {
	var errs []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (r *Result) Warnings() []Issue {
	var warns []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			warns = append(warns, i)
		}
	}
	return warns
}

// ValidateSelected checks every selected row for structural soundness.
func ValidateSelected(models []model.SelectedModel) *Result {
	r := &Result{}
	for _, m := range models {
		label := m.ID
		if label == "" {
			label = m.Name
		}
		if label == "" {
			label = "(unnamed)"
		}
		validateRow(r, label, m)
	}
	return r
}

func validateRow(r *Result, label string, m model.SelectedModel) {
	if m.ID == "" {
		r.Issues = append(r.Issues, Issue{SeverityError, label, "id", "required field is empty"})
	} else if !strings.Contains(m.ID, "/") {
		r.Issues = append(r.Issues, Issue{SeverityError, label, "id", "expected <provider>/<model> shape"})
	}
	if m.Provider == "" {
		r.Issues = append(r.Issues, Issue{SeverityError, label, "provider", "not derivable from id"})
	}
	if m.Name == "" {
		r.Issues = append(r.Issues, Issue{SeverityWarning, label, "name", "missing display name"})
	}
	if m.ReleaseDate == "" {
		r.Issues = append(r.Issues, Issue{SeverityWarning, label, "release_date", "missing release date"})
	}

	if m.Cost == nil {
		r.Issues = append(r.Issues, Issue{SeverityWarning, label, "cost", "missing registry pricing"})
	} else {
		checkNonNegative(r, label, "cost.input", m.Cost.Input)
		checkNonNegative(r, label, "cost.output", m.Cost.Output)
	}

	if m.Percentiles != nil {
		checkPercentile(r, label, "percentiles.overall", m.Percentiles.Overall)
		checkPercentile(r, label, "percentiles.intelligence", m.Percentiles.Intelligence)
		checkPercentile(r, label, "percentiles.speed", m.Percentiles.Speed)
		checkPercentile(r, label, "percentiles.price", m.Percentiles.Price)
	}
}

func checkNonNegative(r *Result, label, field string, v *float64) {
	if v != nil && *v < 0 {
		r.Issues = append(r.Issues, Issue{SeverityError, label, field, fmt.Sprintf("negative value %v", *v)})
	}
}

func checkPercentile(r *Result, label, field string, v *float64) {
	if v != nil && (*v < 0 || *v > 100) {
		r.Issues = append(r.Issues, Issue{SeverityError, label, field, fmt.Sprintf("outside [0, 100]: %v", *v)})
	}
}

// FormatResult renders a human-readable validation report.
func FormatResult(r *Result) string {
	if len(r.Issues) == 0 {
		return "validation passed: no issues"
	}
	var b strings.Builder
	errs, warns := r.Errors(), r.Warnings()
	fmt.Fprintf(&b, "validation: %d error(s), %d warning(s)\n", len(errs), len(warns))
	for _, i := range r.Issues {
		b.WriteString("  " + i.String() + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
