package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/designbible/biblecheck/internal/types"
	"github.com/designbible/biblecheck/internal/version"
)

type sarifReport struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifText         `json:"shortDescription"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifText struct {
	Text string `json:"text"`
}

// WriteSARIF encodes findings (level error) and warnings (level warning) as
// a SARIF 2.1.0 log. Rule IDs are the violation labels; the owning check is
// recorded as a rule property.
func WriteSARIF(w io.Writer, v types.Verdict) error {
	rulesByID := map[string]sarifRule{}
	results := make([]sarifResult, 0, len(v.Findings)+len(v.Warnings))

	add := func(check string, violation types.Violation, severity string) {
		if _, exists := rulesByID[violation.RuleLabel]; !exists {
			rulesByID[violation.RuleLabel] = sarifRule{
				ID:               violation.RuleLabel,
				ShortDescription: sarifText{Text: violation.RuleLabel},
				Properties: map[string]string{
					"check":    check,
					"severity": severity,
				},
			}
		}
		result := sarifResult{
			RuleID:  violation.RuleLabel,
			Level:   sarifLevel(severity),
			Message: sarifText{Text: violation.String()},
		}
		if violation.Path != "" {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: violation.Path},
				},
			}}
		}
		results = append(results, result)
	}

	for _, r := range v.Results {
		if !r.Executed() {
			continue
		}
		for _, f := range r.Findings {
			add(r.Name, f, types.SeverityBlock)
		}
		for _, warn := range r.Warnings {
			severity := types.SeverityWarn
			if r.Status == types.StatusFailed {
				severity = types.SeverityBlock
			}
			add(r.Name, warn, severity)
		}
	}

	rules := make([]sarifRule, 0, len(rulesByID))
	for _, rule := range rulesByID {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	report := sarifReport{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "biblecheck",
				Version: version.Version,
				Rules:   rules,
			}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func sarifLevel(severity string) string {
	switch severity {
	case types.SeverityBlock:
		return "error"
	case types.SeverityWarn:
		return "warning"
	default:
		return "note"
	}
}
