// Package types defines shared data structures used across biblecheck.
package types

import "fmt"

// Violation is a single compliance finding: which rule fired on which file.
type Violation struct {
	RuleLabel string `json:"rule"`
	Path      string `json:"path"`
}

// String renders the violation the way report detail lines show it.
func (v Violation) String() string {
	if v.Path == "" {
		return v.RuleLabel
	}
	return fmt.Sprintf("%s: %s", v.RuleLabel, v.Path)
}

// Status is the outcome of one check.
type Status string

// Check outcomes as printed on report banners.
const (
	StatusPassed       Status = "PASSED"
	StatusFailed       Status = "FAILED"
	StatusSkipped      Status = "SKIPPED"
	StatusPassedWarned Status = "PASSED with warnings"
)

// CheckResult holds everything a single check produced.
type CheckResult struct {
	Name     string
	Status   Status
	Findings []Violation
	Warnings []Violation
	// Notes are free-form lines printed after the details, such as
	// remediation hints or the reason a check was skipped.
	Notes []string
}

// Executed reports whether the check took part in the verdict.
func (r CheckResult) Executed() bool {
	return r.Status != StatusSkipped
}

// Passed reports whether the check counts as passing.
func (r CheckResult) Passed() bool {
	return r.Status == StatusPassed || r.Status == StatusPassedWarned
}

// Verdict is the terminal value of a run.
type Verdict struct {
	Passed   bool
	Findings []Violation
	Warnings []Violation
	Results  []CheckResult
}

// Severity levels for findings.
const (
	SeverityBlock = "block"
	SeverityWarn  = "warn"
)

// Exit codes for CLI commands.
const (
	ExitSuccess           = 0
	ExitBlockingViolation = 20
	ExitSystemError       = 50
)

// Check names as printed on report banners.
const (
	CheckBibleCompliance = "iOS 26 Bible Compliance Check"
	CheckForbiddenAPI    = "iOS 26 Bible Forbidden-API Check"
	CheckComponentRules  = "iOS 26 Bible Component Rules"
	CheckScreenRegistry  = "Screen registry check"
	CheckTraceability    = "Traceability matrix check"
	CheckShellUsage      = "Shell enforcement"
	CheckPRDeclaration   = "PR declaration check"
)
