// Package config holds the compliance check configuration and its loader.
//
// The configuration is built once per run and passed by value into every
// check. Loading is layered with koanf: built-in defaults, then the config
// document, then BIBLE_CHECK_* environment variables, then explicitly set
// command-line flags.
package config

import "strings"

// Enforcement modes for the primitive allowlist.
const (
	ModeWarn = "warn"
	ModeFail = "fail"
)

// Default locations of the compliance documents, relative to the scan root.
const (
	DefaultScreenSuffix           = "Screen.swift"
	DefaultScreenIndexPath        = "swiftui-starter-repo/COMPLIANCE/SCREEN_INDEX.md"
	DefaultTraceabilityMatrixPath = "swiftui-starter-repo/COMPLIANCE/TRACEABILITY_MATRIX.md"
	DefaultConfigRelPath          = "ci/bible_check_config.json"
)

// DefaultApprovedShells are the outer containers every screen must compose.
var DefaultApprovedShells = []string{"ListShell(", "DetailShell(", "FormShell(", "SearchShell("}

// ComponentRules toggles the heuristic component-usage rules.
type ComponentRules struct {
	ForbidScrollViewVStackForms bool     `koanf:"forbid_scrollview_vstack_forms" json:"forbid_scrollview_vstack_forms" yaml:"forbid_scrollview_vstack_forms"`
	ForbidCustomListSeparators  bool     `koanf:"forbid_custom_list_separators" json:"forbid_custom_list_separators" yaml:"forbid_custom_list_separators"`
	ForbidGestureButtons        bool     `koanf:"forbid_gesture_buttons" json:"forbid_gesture_buttons" yaml:"forbid_gesture_buttons"`
	AllowlistPrimitives         []string `koanf:"allowlist_swiftui_primitives" json:"allowlist_swiftui_primitives" yaml:"allowlist_swiftui_primitives"`
	AllowlistEnforcementMode    string   `koanf:"allowlist_enforcement_mode" json:"allowlist_enforcement_mode" yaml:"allowlist_enforcement_mode"`
	AllowlistExemptPaths        []string `koanf:"allowlist_exempt_paths" json:"allowlist_exempt_paths" yaml:"allowlist_exempt_paths"`
}

// Config is the merged check configuration.
type Config struct {
	IgnorePaths                 []string       `koanf:"ignore_paths" json:"ignore_paths" yaml:"ignore_paths"`
	ComponentRules              ComponentRules `koanf:"component_rules" json:"component_rules" yaml:"component_rules"`
	AllowForbiddenPatternsPaths []string       `koanf:"allow_forbidden_patterns_paths" json:"allow_forbidden_patterns_paths" yaml:"allow_forbidden_patterns_paths"`
	ForbiddenSwiftUIPatterns    []string       `koanf:"forbidden_swiftui_patterns" json:"forbidden_swiftui_patterns" yaml:"forbidden_swiftui_patterns"`
	ForbiddenUIKitPatterns      []string       `koanf:"forbidden_uikit_patterns" json:"forbidden_uikit_patterns" yaml:"forbidden_uikit_patterns"`
	AllowNumericPaddingPaths    []string       `koanf:"allow_numeric_padding_paths" json:"allow_numeric_padding_paths" yaml:"allow_numeric_padding_paths"`
	RequirePRDeclaration        bool           `koanf:"require_pr_declaration" json:"require_pr_declaration" yaml:"require_pr_declaration"`
	PRDeclarationPath           string         `koanf:"pr_declaration_path" json:"pr_declaration_path" yaml:"pr_declaration_path"`
	RequiredDeclarationPhrases  []string       `koanf:"required_declaration_phrases" json:"required_declaration_phrases" yaml:"required_declaration_phrases"`

	ScreenSuffix           string   `koanf:"screen_suffix" json:"screen_suffix" yaml:"screen_suffix"`
	ScreenIndexPath        string   `koanf:"screen_index_path" json:"screen_index_path" yaml:"screen_index_path"`
	TraceabilityMatrixPath string   `koanf:"traceability_matrix_path" json:"traceability_matrix_path" yaml:"traceability_matrix_path"`
	ApprovedShells         []string `koanf:"approved_shells" json:"approved_shells" yaml:"approved_shells"`
}

// Default returns the all-defaults configuration.
func Default() Config {
	return Config{
		IgnorePaths: []string{},
		ComponentRules: ComponentRules{
			ForbidScrollViewVStackForms: true,
			ForbidCustomListSeparators:  true,
			ForbidGestureButtons:        true,
			AllowlistPrimitives:         []string{},
			AllowlistEnforcementMode:    ModeWarn,
			AllowlistExemptPaths:        []string{},
		},
		AllowForbiddenPatternsPaths: []string{},
		ForbiddenSwiftUIPatterns:    []string{},
		ForbiddenUIKitPatterns:      []string{},
		AllowNumericPaddingPaths:    []string{},
		RequirePRDeclaration:        false,
		PRDeclarationPath:           "",
		RequiredDeclarationPhrases:  []string{},
		ScreenSuffix:                DefaultScreenSuffix,
		ScreenIndexPath:             DefaultScreenIndexPath,
		TraceabilityMatrixPath:      DefaultTraceabilityMatrixPath,
		ApprovedShells:              append([]string(nil), DefaultApprovedShells...),
	}
}

// defaultMap mirrors Default as the lowest koanf layer so nested groups
// deep-merge with the document instead of being replaced wholesale.
func defaultMap() map[string]any {
	return map[string]any{
		"ignore_paths": []string{},
		"component_rules": map[string]any{
			"forbid_scrollview_vstack_forms": true,
			"forbid_custom_list_separators":  true,
			"forbid_gesture_buttons":         true,
			"allowlist_swiftui_primitives":   []string{},
			"allowlist_enforcement_mode":     ModeWarn,
			"allowlist_exempt_paths":         []string{},
		},
		"allow_forbidden_patterns_paths": []string{},
		"forbidden_swiftui_patterns":     []string{},
		"forbidden_uikit_patterns":       []string{},
		"allow_numeric_padding_paths":    []string{},
		"require_pr_declaration":         false,
		"pr_declaration_path":            "",
		"required_declaration_phrases":   []string{},
		"screen_suffix":                  DefaultScreenSuffix,
		"screen_index_path":              DefaultScreenIndexPath,
		"traceability_matrix_path":       DefaultTraceabilityMatrixPath,
		"approved_shells":                append([]string(nil), DefaultApprovedShells...),
	}
}

// AllowlistFails reports whether unexpected primitives block the run.
func (c ComponentRules) AllowlistFails() bool {
	return strings.EqualFold(strings.TrimSpace(c.AllowlistEnforcementMode), ModeFail)
}

// EnforcementMode returns the normalized allowlist mode.
func (c ComponentRules) EnforcementMode() string {
	if c.AllowlistFails() {
		return ModeFail
	}
	return ModeWarn
}
