package policy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/designbible/biblecheck/internal/log"
	"github.com/designbible/biblecheck/internal/rules"
	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

// Label prefixes of the configured forbidden-API rules.
const (
	SwiftUIPatternPrefix = "Forbidden SwiftUI pattern: "
	UIKitPatternPrefix   = "Forbidden UIKit pattern: "
)

const (
	hintForbiddenAPI = "If this is a legitimate exception, add the file path prefix to allow_forbidden_patterns_paths in ci/bible_check_config.json (prefer Tests/ only)."
	hintAllowlist    = "Allowlist enforcement mode is FAIL. Update component_rules.allowlist_swiftui_primitives or exempt paths if truly needed."
	labelScanFailed  = "Unable to scan source tree"
	labelCancelled   = "Check cancelled before completion"
)

func checkCompliance(ctx context.Context, env Env) types.CheckResult {
	files, err := discoverSources(env, scan.SourceExtensions...)
	if err != nil {
		return systemFailure(labelScanFailed, env.Root, err)
	}

	class := rules.Compliance()
	exc := rules.Exceptions{
		rules.LabelNumericPadding: scan.NewMatcher(env.Config.AllowNumericPaddingPaths),
	}

	var findings []types.Violation
	if err := eachFile(ctx, files, func(f scan.File, content string) {
		findings = append(findings, class.Evaluate(f.RelPath, content, exc)...)
	}); err != nil {
		return systemFailure(labelCancelled, env.Root, err)
	}
	return result(findings, nil, false)
}

func checkForbiddenAPI(ctx context.Context, env Env) types.CheckResult {
	swiftUI := compileClass("swiftui", SwiftUIPatternPrefix, env.Config.ForbiddenSwiftUIPatterns)
	uiKit := compileClass("uikit", UIKitPatternPrefix, env.Config.ForbiddenUIKitPatterns)

	files, err := discoverSources(env, scan.SourceExtensions...)
	if err != nil {
		return systemFailure(labelScanFailed, env.Root, err)
	}
	allowed := scan.NewMatcher(env.Config.AllowForbiddenPatternsPaths)

	var findings []types.Violation
	if err := eachFile(ctx, files, func(f scan.File, content string) {
		if allowed.Match(f.RelPath) {
			return
		}
		class := uiKit
		if filepath.Ext(f.RelPath) == ".swift" {
			class = swiftUI
		}
		findings = append(findings, class.Evaluate(f.RelPath, content, nil)...)
	}); err != nil {
		return systemFailure(labelCancelled, env.Root, err)
	}
	return result(findings, nil, false, hintForbiddenAPI)
}

func compileClass(name, prefix string, sources []string) rules.Class {
	class, errs := rules.Compile(name, prefix, sources)
	for _, err := range errs {
		log.Warn("Ignoring invalid forbidden pattern", "class", name, "error", err)
	}
	return class
}

func checkComponentRules(ctx context.Context, env Env) types.CheckResult {
	cr := env.Config.ComponentRules

	files, err := discoverSources(env, ".swift")
	if err != nil {
		return systemFailure(labelScanFailed, env.Root, err)
	}
	exempt := scan.NewMatcher(cr.AllowlistExemptPaths)
	opts := rules.StructuralOptions{
		FormLayout:     cr.ForbidScrollViewVStackForms,
		Separators:     cr.ForbidCustomListSeparators,
		GestureButtons: cr.ForbidGestureButtons,
	}

	var allow map[string]struct{}
	if len(cr.AllowlistPrimitives) > 0 {
		allow = make(map[string]struct{}, len(cr.AllowlistPrimitives))
		for _, p := range cr.AllowlistPrimitives {
			allow[p] = struct{}{}
		}
	}

	var findings, warnings []types.Violation
	if err := eachFile(ctx, files, func(f scan.File, content string) {
		if exempt.Match(f.RelPath) {
			return
		}
		findings = append(findings, rules.EvaluateStructural(f.RelPath, content, opts)...)
		if allow == nil {
			return
		}
		if unexpected := rules.UnexpectedPrimitives(content, allow); len(unexpected) > 0 {
			warnings = append(warnings, types.Violation{
				RuleLabel: fmt.Sprintf("Unexpected primitives (%s)", strings.Join(unexpected, ", ")),
				Path:      f.RelPath,
			})
		}
	}); err != nil {
		return systemFailure(labelCancelled, env.Root, err)
	}

	escalate := cr.AllowlistFails()
	r := result(findings, warnings, escalate)
	if escalate && len(warnings) > 0 {
		r.Notes = append(r.Notes, hintAllowlist)
	}
	return r
}
