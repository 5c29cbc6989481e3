// Package report aggregates check results into a verdict and renders it as
// text, JSON or SARIF.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/designbible/biblecheck/internal/types"
)

// Formats accepted by Write.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatSARIF}

// Aggregate folds check results into a verdict. Skipped checks take no part
// in the pass/fail decision; every executed check must pass.
func Aggregate(results []types.CheckResult) types.Verdict {
	v := types.Verdict{Passed: true, Results: results}
	for _, r := range results {
		if !r.Executed() {
			continue
		}
		if !r.Passed() {
			v.Passed = false
		}
		v.Findings = append(v.Findings, r.Findings...)
		v.Warnings = append(v.Warnings, r.Warnings...)
	}
	return v
}

// ExitCode maps a verdict onto the process exit status.
func ExitCode(v types.Verdict) int {
	if v.Passed {
		return types.ExitSuccess
	}
	return types.ExitBlockingViolation
}

// Write renders v to w in the named format.
func Write(w io.Writer, format string, v types.Verdict) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return WriteText(w, v)
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatSARIF:
		return WriteSARIF(w, v)
	default:
		return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}
