package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

func TestCompileDropsInvalidPatterns(t *testing.T) {
	class, errs := Compile("swiftui", "Forbidden SwiftUI pattern: ", []string{
		`\bNavigationView\b`,
		`(?<=foo)bar`, // lookbehind is not supported by RE2
		`\.actionSheet\(`,
	})

	require.Len(t, errs, 1)
	require.Len(t, class.Rules, 2)
	assert.Equal(t, `Forbidden SwiftUI pattern: \bNavigationView\b`, class.Rules[0].Label)
	assert.Equal(t, `Forbidden SwiftUI pattern: \.actionSheet\(`, class.Rules[1].Label)
}

func TestEmptyClassNeverMatches(t *testing.T) {
	class, errs := Compile("empty", "x: ", nil)
	require.Empty(t, errs)

	for _, content := range []string{"", "GeometryReader { _ in }", ".padding(12)"} {
		assert.Empty(t, class.Match(content))
		assert.Empty(t, class.Evaluate("A.swift", content, nil))
	}
}

func TestMatchPreservesClassOrder(t *testing.T) {
	class, _ := Compile("c", "", []string{`beta`, `alpha`, `gamma`})
	matched := class.Match("alpha beta")
	require.Len(t, matched, 2)
	assert.Equal(t, "beta", matched[0].Label)
	assert.Equal(t, "alpha", matched[1].Label)
}

func TestComplianceRules(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		label   string
	}{
		{"numeric padding", "Text(\"a\").padding(16)", LabelNumericPadding},
		{"fixed frame", ".frame(width: 120)", LabelFixedFrame},
		{"geometry reader", "GeometryReader { proxy in }", LabelGeometryReader},
		{"hex color literal", "Color(\"#FF0000\")", LabelHexColor},
		{"custom spring", ".animation(.spring(response: 0.3))", LabelCustomSpring},
		{"uikit frame", "view.frame = bounds", LabelUIKitFrameLayout},
		{"cgrect", "let r = CGRect(x: 0, y: 0, width: 1, height: 1)", LabelUIKitFrameLayout},
		{"pop gesture", "navigationController?.interactivePopGestureRecognizer?.isEnabled = false", LabelPopGesture},
	}

	class := Compliance()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			labels := make([]string, 0)
			for _, r := range class.Match(tc.content) {
				labels = append(labels, r.Label)
			}
			assert.Contains(t, labels, tc.label)
		})
	}

	assert.Empty(t, class.Match("List { Text(\"ok\") }.padding()"))
}

func TestEvaluateHonorsPerRuleExceptions(t *testing.T) {
	content := "VStack { }.padding(8)\nGeometryReader { _ in }"
	exc := Exceptions{LabelNumericPadding: scan.NewMatcher([]string{"Previews/"})}

	allowed := Compliance().Evaluate("App/Previews/Card.swift", content, exc)
	assert.Equal(t, []types.Violation{{RuleLabel: LabelGeometryReader, Path: "App/Previews/Card.swift"}}, allowed)

	flagged := Compliance().Evaluate("App/Screens/Card.swift", content, exc)
	assert.Equal(t, []types.Violation{
		{RuleLabel: LabelNumericPadding, Path: "App/Screens/Card.swift"},
		{RuleLabel: LabelGeometryReader, Path: "App/Screens/Card.swift"},
	}, flagged)
}
