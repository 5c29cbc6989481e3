package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

func artifacts(rels ...string) []scan.Artifact {
	files := make([]scan.File, 0, len(rels))
	for _, rel := range rels {
		files = append(files, scan.File{RelPath: rel})
	}
	return scan.Screens(files)
}

func TestValidate(t *testing.T) {
	screens := artifacts(
		"Screens/HomeListScreen.swift",
		"Screens/LoginScreen.swift",
		"Screens/Settings/SettingsScreen.swift",
	)

	testCases := []struct {
		name     string
		registry string
		expected []types.Violation
	}{
		{
			name:     "all registered",
			registry: "| HomeListScreen | list |\n| LoginScreen | form |\n| SettingsScreen | form |",
			expected: nil,
		},
		{
			name:     "one missing per artifact",
			registry: "# Screens\n- HomeListScreen\n",
			expected: []types.Violation{
				{RuleLabel: LabelNotRegistered, Path: "Screens/LoginScreen.swift"},
				{RuleLabel: LabelNotRegistered, Path: "Screens/Settings/SettingsScreen.swift"},
			},
		},
		{
			name:     "empty registry",
			registry: "",
			expected: []types.Violation{
				{RuleLabel: LabelNotRegistered, Path: "Screens/HomeListScreen.swift"},
				{RuleLabel: LabelNotRegistered, Path: "Screens/LoginScreen.swift"},
				{RuleLabel: LabelNotRegistered, Path: "Screens/Settings/SettingsScreen.swift"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Validate(screens, tc.registry))
		})
	}
}

func TestValidateSubstringMatchIsAccepted(t *testing.T) {
	// "LoginScreen" occurs inside "AdminLoginScreen"; the weak membership
	// test treats it as registered.
	got := Validate(artifacts("LoginScreen.swift"), "- AdminLoginScreen\n")
	assert.Empty(t, got)
}
