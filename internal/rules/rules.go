// Package rules evaluates pattern-based and structural compliance rules
// against file contents.
//
// All rules have presence-only semantics: a rule either matches somewhere in
// the content or it does not. Position and match count are never reported.
package rules

import (
	"fmt"
	"regexp"

	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

// Rule is a labelled regular expression.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// Class is a named, ordered rule sequence.
type Class struct {
	Name  string
	Rules []Rule
}

// Exceptions allow a single rule, by label, on the matched paths only.
type Exceptions map[string]scan.Matcher

// Compile builds a class from regex sources. Each rule is labelled
// labelPrefix + source. Sources that fail to compile are left out and
// returned as errors; they never abort the class.
func Compile(name, labelPrefix string, sources []string) (Class, []error) {
	class := Class{Name: name, Rules: make([]Rule, 0, len(sources))}
	var errs []error
	for _, src := range sources {
		rx, err := regexp.Compile(src)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %q dropped: %w", src, err))
			continue
		}
		class.Rules = append(class.Rules, Rule{Label: labelPrefix + src, Pattern: rx})
	}
	return class, errs
}

// Match returns, in class order, every rule whose pattern occurs in content.
func (c Class) Match(content string) []Rule {
	return c.match(content, "", nil)
}

// Evaluate runs the class over one file and returns a violation for every
// matching rule, except rules whose exception covers rel.
func (c Class) Evaluate(rel, content string, exc Exceptions) []types.Violation {
	var out []types.Violation
	for _, r := range c.match(content, rel, exc) {
		out = append(out, types.Violation{RuleLabel: r.Label, Path: rel})
	}
	return out
}

func (c Class) match(content, rel string, exc Exceptions) []Rule {
	var matched []Rule
	for _, r := range c.Rules {
		if m, ok := exc[r.Label]; ok && m.Match(rel) {
			continue
		}
		if r.Pattern.MatchString(content) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Labels of the built-in compliance rules.
const (
	LabelNumericPadding   = "SwiftUI numeric padding"
	LabelFixedFrame       = "SwiftUI fixed frame size"
	LabelGeometryReader   = "SwiftUI GeometryReader"
	LabelHexColor         = "SwiftUI hex color"
	LabelCustomSpring     = "Custom spring params"
	LabelUIKitFrameLayout = "UIKit frame layout"
	LabelPopGesture       = "UIKit disables pop gesture"
)

// Compliance returns the built-in layout/motion rules. The patterns are
// conservative; false positives are accepted.
func Compliance() Class {
	return Class{
		Name: "compliance",
		Rules: []Rule{
			{LabelNumericPadding, regexp.MustCompile(`\.padding\(\s*\d`)},
			{LabelFixedFrame, regexp.MustCompile(`\.frame\(.*(width\s*:\s*\d|height\s*:\s*\d)`)},
			{LabelGeometryReader, regexp.MustCompile(`\bGeometryReader\b`)},
			{LabelHexColor, regexp.MustCompile(`Color\(\s*#|Color\(\s*"#|#(?:[0-9a-fA-F]{3}){1,2}\b`)},
			{LabelCustomSpring, regexp.MustCompile(`\.spring\(\s*response\s*:|\.interpolatingSpring\(|\.timingCurve\(`)},
			{LabelUIKitFrameLayout, regexp.MustCompile(`\bview\.frame\s*=|\bCGRect\(`)},
			{LabelPopGesture, regexp.MustCompile(`interactivePopGestureRecognizer\?\.isEnabled\s*=\s*false`)},
		},
	}
}
