package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

const sampleMatrix = `# Traceability Matrix

Intro text mentioning - Screen: NotABlock inline.

- Screen: HomeListScreen
  Purpose: list of items
  System components used:
  - ListShell
  - NavigationStack
  UIKit/SwiftUI bridging:
  - None
  Accessibility:
  - Dynamic Type

- Screen: FormScreen
  System components used:
  - FormShell
  - TextField
  - SecureField
  Notes:
  - Keep validation inline
- Screen: EmptyScreen
  System components used:
  State:
  - loading
- Screen: NoSectionScreen
  Notes: nothing here
- Screen: HomeListScreen
  System components used:
  - ListShell
`

func TestParse(t *testing.T) {
	blocks := Parse(sampleMatrix)
	require.Len(t, blocks, 5)

	assert.Equal(t, Block{ScreenName: "HomeListScreen", Components: []string{"ListShell", "NavigationStack"}}, blocks[0])
	assert.Equal(t, Block{ScreenName: "FormScreen", Components: []string{"FormShell", "TextField", "SecureField"}}, blocks[1])
	assert.Equal(t, Block{ScreenName: "EmptyScreen", Components: []string{}}, blocks[2])
	assert.Equal(t, Block{ScreenName: "NoSectionScreen", Components: []string{}}, blocks[3])
}

func TestParseSectionRunsToEndOfBlock(t *testing.T) {
	blocks := Parse("- Screen: LoginScreen\nSystem components used:\n- Button")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"Button"}, blocks[0].Components)

	blocks = Parse("- Screen: A\r\n  System components used:\r\n  - Button\r\n- Screen: B\r\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"Button"}, blocks[0].Components)
	assert.Empty(t, blocks[1].Components)
}

func TestParseListItemSectionHeaders(t *testing.T) {
	blocks := Parse("- Screen: A\n  - System components used:\n    - Toggle\n  - Accessibility:\n    - VoiceOver\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"Toggle"}, blocks[0].Components)
}

func TestIndexLastBlockWins(t *testing.T) {
	index := Index(Parse(sampleMatrix))
	assert.Equal(t, []string{"ListShell"}, index["HomeListScreen"].Components)

	doc := "- Screen: LoginScreen\n  System components used:\n- Screen: LoginScreen\n  System components used:\n  - Button\n"
	index = Index(Parse(doc))
	assert.Equal(t, []string{"Button"}, index["LoginScreen"].Components)
	assert.True(t, Correlate(screens("LoginScreen.swift"), Parse(doc), []string{"Button"}).Clean())
}

func screens(rels ...string) []scan.Artifact {
	files := make([]scan.File, 0, len(rels))
	for _, rel := range rels {
		files = append(files, scan.File{RelPath: rel})
	}
	return scan.Screens(files)
}

func TestCorrelateClassesAreMutuallyExclusive(t *testing.T) {
	artifacts := screens(
		"Screens/HomeListScreen.swift",
		"Screens/FormScreen.swift",
		"Screens/EmptyScreen.swift",
		"Screens/GhostScreen.swift",
	)
	allow := []string{"ListShell", "NavigationStack", "FormShell", "TextField"}

	f := Correlate(artifacts, Parse(sampleMatrix), allow)

	require.Len(t, f.Missing, 1)
	assert.Equal(t, "GhostScreen", f.Missing[0].Name)
	require.Len(t, f.Empty, 1)
	assert.Equal(t, "EmptyScreen", f.Empty[0].Name)
	require.Len(t, f.Unknown, 1)
	assert.Equal(t, "FormScreen", f.Unknown[0].Artifact.Name)
	assert.Equal(t, []string{"SecureField"}, f.Unknown[0].Components)
	assert.False(t, f.Clean())

	assert.Equal(t, []types.Violation{
		{RuleLabel: LabelMissingEntry, Path: "Screens/GhostScreen.swift"},
		{RuleLabel: LabelNoComponents, Path: "Screens/EmptyScreen.swift"},
		{RuleLabel: "Components not in allowlist (SecureField)", Path: "Screens/FormScreen.swift"},
	}, f.Violations())
}

func TestCorrelateEmptyAllowlistSkipsMembership(t *testing.T) {
	f := Correlate(screens("FormScreen.swift"), Parse(sampleMatrix), nil)
	assert.True(t, f.Clean())
	assert.Empty(t, f.Violations())
}

func TestLoginScreenScenario(t *testing.T) {
	doc := "- Screen: LoginScreen\n  System components used:\n  - Button\n"
	artifacts := screens("LoginScreen.swift")

	assert.True(t, Correlate(artifacts, Parse(doc), []string{"Button", "Form"}).Clean())
	assert.True(t, Correlate(artifacts, Parse(doc), nil).Clean())

	f := Correlate(artifacts, Parse(doc), []string{"Form"})
	assert.Equal(t, []types.Violation{
		{RuleLabel: "Components not in allowlist (Button)", Path: "LoginScreen.swift"},
	}, f.Violations())
}
