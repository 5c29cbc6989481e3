// Package policy implements the compliance checks and runs them.
// Every check is independent and read-only over the source tree, so the
// runner executes them concurrently and reassembles results in a fixed order.
package policy

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/designbible/biblecheck/internal/config"
	"github.com/designbible/biblecheck/internal/gitdiff"
	"github.com/designbible/biblecheck/internal/log"
	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

// Env is the read-only input shared by all checks.
type Env struct {
	// Root is the source tree to scan.
	Root   string
	Config config.Config
	// Workspace is where git runs for the PR declaration gate.
	Workspace string
	Differ    gitdiff.Differ
	BaseRef   func() (string, error)
}

// Check is one named compliance check.
type Check struct {
	ID          string
	Name        string
	Description string
	Run         func(ctx context.Context, env Env) types.CheckResult
}

// All returns every check in report order.
func All() []Check {
	return []Check{
		{
			ID: "compliance", Name: types.CheckBibleCompliance, Run: checkCompliance,
			Description: "Layout and motion rules over all Swift and Objective-C sources",
		},
		{
			ID: "forbidden-api", Name: types.CheckForbiddenAPI, Run: checkForbiddenAPI,
			Description: "Configured forbidden SwiftUI and UIKit patterns",
		},
		{
			ID: "components", Name: types.CheckComponentRules, Run: checkComponentRules,
			Description: "Form, separator and gesture heuristics plus the primitive allowlist",
		},
		{
			ID: "registry", Name: types.CheckScreenRegistry, Run: checkScreenRegistry,
			Description: "Every screen is listed in the screen index",
		},
		{
			ID: "matrix", Name: types.CheckTraceability, Run: checkTraceabilityMatrix,
			Description: "Every screen has a traceability entry with allowed components",
		},
		{
			ID: "shells", Name: types.CheckShellUsage, Run: checkShellUsage,
			Description: "Every screen composes an approved shell container",
		},
		{
			ID: "pr-declaration", Name: types.CheckPRDeclaration, Run: checkPRDeclaration,
			Description: "Pull requests update the compliance declaration",
		},
	}
}

// Select returns the checks named by ids, keeping report order. An empty
// selection means all checks.
func Select(ids []string) ([]Check, error) {
	all := All()
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[strings.ToLower(strings.TrimSpace(id))] = struct{}{}
	}

	selected := make([]Check, 0, len(ids))
	for _, c := range all {
		if _, ok := wanted[c.ID]; ok {
			selected = append(selected, c)
			delete(wanted, c.ID)
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for id := range wanted {
			unknown = append(unknown, id)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// Run executes checks concurrently and returns their results in the order
// the checks were given. A failing check never stops the others.
func Run(ctx context.Context, env Env, checks []Check) []types.CheckResult {
	env = env.withDefaults()
	results := make([]types.CheckResult, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			logger := log.With("check", c.ID)
			logger.Debug("check started")
			results[i] = c.Run(gctx, env)
			results[i].Name = c.Name
			logger.Debug("check finished", "status", results[i].Status,
				"findings", len(results[i].Findings), "warnings", len(results[i].Warnings))
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e Env) withDefaults() Env {
	if e.Root == "" {
		e.Root = "."
	}
	if e.Workspace == "" {
		e.Workspace = e.Root
	}
	if e.Differ == nil {
		e.Differ = gitdiff.Git{Dir: e.Workspace}
	}
	if e.BaseRef == nil {
		e.BaseRef = gitdiff.BaseRef
	}
	return e
}

// result settles a check's status from its findings and warnings.
// Notes are kept only when the check did not plainly pass.
func result(findings, warnings []types.Violation, warningsFail bool, notes ...string) types.CheckResult {
	r := types.CheckResult{Findings: findings, Warnings: warnings}
	switch {
	case len(findings) > 0 || (len(warnings) > 0 && warningsFail):
		r.Status = types.StatusFailed
	case len(warnings) > 0:
		r.Status = types.StatusPassedWarned
	default:
		r.Status = types.StatusPassed
	}
	if r.Status != types.StatusPassed {
		r.Notes = notes
	}
	return r
}

func skipped(reason string) types.CheckResult {
	return types.CheckResult{Status: types.StatusSkipped, Notes: []string{reason}}
}

func systemFailure(label, path string, err error) types.CheckResult {
	log.Error(label, "path", path, "error", err)
	return types.CheckResult{
		Status:   types.StatusFailed,
		Findings: []types.Violation{{RuleLabel: label, Path: path}},
	}
}

// eachFile reads every file and hands its content to fn. Unreadable files
// are skipped. It stops early only when ctx is cancelled.
func eachFile(ctx context.Context, files []scan.File, fn func(f scan.File, content string)) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := os.ReadFile(f.FullPath)
		if err != nil {
			log.Debug("skipping unreadable file", "path", f.RelPath, "error", err)
			continue
		}
		fn(f, string(content))
	}
	return nil
}

func discoverSources(env Env, exts ...string) ([]scan.File, error) {
	return scan.Files(env.Root, scan.Options{
		Include: scan.Extensions(exts...),
		Ignore:  scan.NewMatcher(env.Config.IgnorePaths),
	})
}

func discoverScreens(env Env) ([]scan.Artifact, error) {
	files, err := scan.Files(env.Root, scan.Options{
		Include: scan.Suffix(env.Config.ScreenSuffix),
		Ignore:  scan.NewMatcher(env.Config.IgnorePaths),
	})
	if err != nil {
		return nil, err
	}
	return scan.Screens(files), nil
}
