package policy

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/designbible/biblecheck/internal/matrix"
	"github.com/designbible/biblecheck/internal/registry"
	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

const (
	labelMissingDocument = "Missing"
	labelUnreadable      = "Unable to read"
	labelNoShell         = "Screen does not compose an approved shell"
)

// readDocument loads a compliance document relative to dir. A missing or
// unreadable document yields a failed result.
func readDocument(dir, rel string) (string, *types.CheckResult) {
	full := filepath.Join(dir, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err == nil {
		return string(data), nil
	}
	label := labelUnreadable
	if errors.Is(err, fs.ErrNotExist) {
		label = labelMissingDocument
	}
	r := systemFailure(label, rel, err)
	return "", &r
}

// documentedScreens discovers screens subject to registry and matrix
// documentation, leaving out exempt paths.
func documentedScreens(env Env) ([]scan.Artifact, error) {
	screens, err := discoverScreens(env)
	if err != nil {
		return nil, err
	}
	return scan.Exclude(screens, scan.NewMatcher(env.Config.ComponentRules.AllowlistExemptPaths)), nil
}

func checkScreenRegistry(ctx context.Context, env Env) types.CheckResult {
	text, failed := readDocument(env.Root, env.Config.ScreenIndexPath)
	if failed != nil {
		return *failed
	}
	screens, err := documentedScreens(env)
	if err != nil {
		return systemFailure(labelScanFailed, env.Root, err)
	}
	if err := ctx.Err(); err != nil {
		return systemFailure(labelCancelled, env.Root, err)
	}
	return result(registry.Validate(screens, text), nil, false,
		"Register every "+env.Config.ScreenSuffix+" file in "+filepath.Base(env.Config.ScreenIndexPath)+".")
}

func checkTraceabilityMatrix(ctx context.Context, env Env) types.CheckResult {
	text, failed := readDocument(env.Root, env.Config.TraceabilityMatrixPath)
	if failed != nil {
		return *failed
	}
	screens, err := documentedScreens(env)
	if err != nil {
		return systemFailure(labelScanFailed, env.Root, err)
	}
	if err := ctx.Err(); err != nil {
		return systemFailure(labelCancelled, env.Root, err)
	}

	f := matrix.Correlate(screens, matrix.Parse(text), env.Config.ComponentRules.AllowlistPrimitives)
	if f.Clean() {
		return result(nil, nil, false)
	}
	var notes []string
	if len(f.Unknown) > 0 {
		notes = append(notes, "Screens list components not in allowlist. Update matrix OR allowlist intentionally.")
	}
	return result(f.Violations(), nil, false, notes...)
}

func checkShellUsage(ctx context.Context, env Env) types.CheckResult {
	screens, err := discoverScreens(env)
	if err != nil {
		return systemFailure(labelScanFailed, env.Root, err)
	}
	files := make([]scan.File, 0, len(screens))
	for _, s := range screens {
		files = append(files, s.File)
	}

	shells := env.Config.ApprovedShells
	var findings []types.Violation
	if err := eachFile(ctx, files, func(f scan.File, content string) {
		if !composesShell(content, shells) {
			findings = append(findings, types.Violation{RuleLabel: labelNoShell, Path: f.RelPath})
		}
	}); err != nil {
		return systemFailure(labelCancelled, env.Root, err)
	}

	names := make([]string, 0, len(shells))
	for _, s := range shells {
		names = append(names, strings.TrimSuffix(s, "("))
	}
	return result(findings, nil, false,
		"Screens must compose an approved Shell as outer container: "+strings.Join(names, "/"))
}

// composesShell reports whether any approved shell token occurs in content.
func composesShell(content string, shells []string) bool {
	for _, s := range shells {
		if s != "" && strings.Contains(content, s) {
			return true
		}
	}
	return false
}
