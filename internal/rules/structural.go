package rules

import (
	"regexp"
	"sort"

	"github.com/designbible/biblecheck/internal/types"
)

// Labels of the heuristic component-usage rules.
const (
	LabelFormLayout    = "Forbidden form layout: ScrollView+VStack used with form controls (use Form/List)"
	LabelSeparators    = "Forbidden custom separators: Divider inside List (use system separators)"
	LabelGestureButton = "Forbidden gesture-button: onTapGesture used without Button (use Button)"
)

var (
	scrollViewPattern  = regexp.MustCompile(`\bScrollView\b`)
	vstackPattern      = regexp.MustCompile(`\bVStack\b`)
	formControlPattern = regexp.MustCompile(`\b(TextField|SecureField|Toggle|DatePicker|Picker)\b`)
	formPattern        = regexp.MustCompile(`\bForm\s*\{`)
	listPattern        = regexp.MustCompile(`\bList\s*\{`)
	dividerPattern     = regexp.MustCompile(`\bDivider\s*\(`)
	onTapPattern       = regexp.MustCompile(`\.onTapGesture\b`)
	buttonPattern      = regexp.MustCompile(`\bButton\s*\(`)
	typeNamePattern    = regexp.MustCompile(`\b[A-Z][A-Za-z0-9_]*\b`)
)

// KnownPrimitives is the closed vocabulary the allowlist rule inspects.
var KnownPrimitives = map[string]struct{}{
	"ScrollView":          {},
	"LazyVStack":          {},
	"LazyHStack":          {},
	"HStack":              {},
	"VStack":              {},
	"ZStack":              {},
	"GeometryReader":      {},
	"Spacer":              {},
	"Divider":             {},
	"Rectangle":           {},
	"RoundedRectangle":    {},
	"Canvas":              {},
	"TimelineView":        {},
	"UIViewRepresentable": {},
	"NSViewRepresentable": {},
}

// FormLayout flags a ScrollView+VStack form built from raw controls. A file
// that also declares a Form or List container is left alone.
func FormLayout(content string) bool {
	if !scrollViewPattern.MatchString(content) ||
		!vstackPattern.MatchString(content) ||
		!formControlPattern.MatchString(content) {
		return false
	}
	return !formPattern.MatchString(content) && !listPattern.MatchString(content)
}

// CustomSeparators flags a manual Divider in a file with a List container.
func CustomSeparators(content string) bool {
	return dividerPattern.MatchString(content) && listPattern.MatchString(content)
}

// GestureButton flags onTapGesture without any Button in the file.
func GestureButton(content string) bool {
	return onTapPattern.MatchString(content) && !buttonPattern.MatchString(content)
}

// UnexpectedPrimitives returns, sorted and de-duplicated, the known
// primitives used in content that are not in allow.
func UnexpectedPrimitives(content string, allow map[string]struct{}) []string {
	seen := map[string]struct{}{}
	for _, name := range typeNamePattern.FindAllString(content, -1) {
		if _, known := KnownPrimitives[name]; !known {
			continue
		}
		if _, ok := allow[name]; ok {
			continue
		}
		seen[name] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// StructuralOptions selects which heuristic rules run.
type StructuralOptions struct {
	FormLayout     bool
	Separators     bool
	GestureButtons bool
}

// EvaluateStructural runs the enabled heuristic rules over one file.
func EvaluateStructural(rel, content string, opts StructuralOptions) []types.Violation {
	var out []types.Violation
	if opts.FormLayout && FormLayout(content) {
		out = append(out, types.Violation{RuleLabel: LabelFormLayout, Path: rel})
	}
	if opts.Separators && CustomSeparators(content) {
		out = append(out, types.Violation{RuleLabel: LabelSeparators, Path: rel})
	}
	if opts.GestureButtons && GestureButton(content) {
		out = append(out, types.Violation{RuleLabel: LabelGestureButton, Path: rel})
	}
	return out
}
