package report

import (
	"encoding/json"
	"io"

	"github.com/designbible/biblecheck/internal/types"
)

// JSONReport is the machine-readable verdict.
type JSONReport struct {
	Passed   bool              `json:"passed"`
	ExitCode int               `json:"exit_code"`
	Checks   []CheckReport     `json:"checks"`
	Findings []types.Violation `json:"findings"`
	Warnings []types.Violation `json:"warnings"`
}

// CheckReport is one check within a JSONReport.
type CheckReport struct {
	Name     string            `json:"name"`
	Status   types.Status      `json:"status"`
	Findings []types.Violation `json:"findings"`
	Warnings []types.Violation `json:"warnings"`
	Notes    []string          `json:"notes,omitempty"`
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v types.Verdict) error {
	report := JSONReport{
		Passed:   v.Passed,
		ExitCode: ExitCode(v),
		Checks:   make([]CheckReport, 0, len(v.Results)),
		Findings: nonNil(v.Findings),
		Warnings: nonNil(v.Warnings),
	}
	for _, r := range v.Results {
		report.Checks = append(report.Checks, CheckReport{
			Name:     r.Name,
			Status:   r.Status,
			Findings: nonNil(r.Findings),
			Warnings: nonNil(r.Warnings),
			Notes:    r.Notes,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func nonNil(v []types.Violation) []types.Violation {
	if v == nil {
		return []types.Violation{}
	}
	return v
}
