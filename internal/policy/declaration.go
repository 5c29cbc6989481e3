package policy

import (
	"context"
	"path"
	"strings"

	"github.com/designbible/biblecheck/internal/log"
	"github.com/designbible/biblecheck/internal/types"
)

// Skip reasons and labels of the PR declaration gate.
const (
	SkipDisabled = "disabled in config"
	SkipNotPR    = "not a PR context"

	labelDeclarationUnset   = "pr_declaration_path is not configured"
	labelDeclarationMissing = "Declaration file missing"
	labelPhraseMissing      = "Missing required phrase/section"
)

func checkPRDeclaration(ctx context.Context, env Env) types.CheckResult {
	cfg := env.Config
	if !cfg.RequirePRDeclaration {
		return skipped(SkipDisabled)
	}

	base, err := env.BaseRef()
	if err != nil {
		return skipped(SkipNotPR)
	}

	declPath := strings.TrimSpace(cfg.PRDeclarationPath)
	if declPath == "" {
		return result([]types.Violation{{RuleLabel: labelDeclarationUnset}}, nil, false)
	}

	changed, err := env.Differ.ChangedFiles(ctx, base)
	if err != nil {
		log.Warn("Unable to list changed files, treating as none", "base", base, "error", err)
		changed = nil
	}

	var findings []types.Violation
	if !touched(changed, declPath) {
		findings = append(findings, types.Violation{
			RuleLabel: "You must modify " + declPath + " in every PR",
		})
	}

	text, failed := readDocument(env.Workspace, declPath)
	if failed != nil {
		findings = append(findings, types.Violation{RuleLabel: labelDeclarationMissing, Path: declPath})
		return result(findings, nil, false)
	}
	for _, phrase := range cfg.RequiredDeclarationPhrases {
		if !strings.Contains(text, phrase) {
			findings = append(findings, types.Violation{RuleLabel: labelPhraseMissing + ": " + phrase, Path: declPath})
		}
	}
	return result(findings, nil, false)
}

func touched(changed []string, declPath string) bool {
	want := path.Clean(strings.ReplaceAll(declPath, "\\", "/"))
	for _, c := range changed {
		if path.Clean(c) == want {
			return true
		}
	}
	return false
}
