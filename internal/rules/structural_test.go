package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/designbible/biblecheck/internal/types"
)

const loginScreen = `import SwiftUI

struct LoginScreen: View {
    @State private var email = ""
    var body: some View {
        ScrollView {
            VStack {
                TextField("Email", text: $email)
            }
        }
    }
}
`

func TestFormLayout(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected bool
	}{
		{"scroll stack and control", loginScreen, true},
		{"declarative form wins", loginScreen + "\nForm { Toggle(\"x\", isOn: $y) }", false},
		{"declarative list wins", loginScreen + "\nList { Text(\"x\") }", false},
		{"no form control", "ScrollView { VStack { Text(\"hi\") } }", false},
		{"no scroll view", "VStack { TextField(\"a\", text: $a) }", false},
		{"word boundary", "MyScrollViewWrapper { VStackish { TextField(\"a\", text: $a) } }", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormLayout(tc.content))
		})
	}
}

func TestCustomSeparators(t *testing.T) {
	assert.True(t, CustomSeparators("List {\n Text(\"a\")\n Divider()\n}"))
	assert.False(t, CustomSeparators("VStack { Divider() }"))
	assert.False(t, CustomSeparators("List { Text(\"a\") }"))
}

func TestGestureButton(t *testing.T) {
	assert.True(t, GestureButton("Text(\"tap\").onTapGesture { go() }"))
	assert.False(t, GestureButton("Button(\"tap\") { go() }\nText(\"x\").onTapGesture { }"))
	assert.False(t, GestureButton("Button(\"tap\") { go() }"))
}

func TestUnexpectedPrimitives(t *testing.T) {
	content := "VStack { HStack { Spacer() } }\nZStack { }\nVStack { }\nCustomView()\nText(\"Divider\")"

	assert.Equal(t, []string{"Divider", "HStack", "Spacer", "VStack", "ZStack"}, UnexpectedPrimitives(content, nil))
	assert.Equal(t, []string{"Divider", "ZStack"}, UnexpectedPrimitives(content, map[string]struct{}{
		"VStack": {}, "HStack": {}, "Spacer": {},
	}))
	assert.Empty(t, UnexpectedPrimitives("Text(\"plain\")", nil))
}

func TestEvaluateStructuralRespectsToggles(t *testing.T) {
	content := loginScreen + "\nText(\"a\").onTapGesture { }"

	all := EvaluateStructural("LoginScreen.swift", content, StructuralOptions{FormLayout: true, Separators: true, GestureButtons: true})
	assert.Equal(t, []types.Violation{
		{RuleLabel: LabelFormLayout, Path: "LoginScreen.swift"},
		{RuleLabel: LabelGestureButton, Path: "LoginScreen.swift"},
	}, all)

	none := EvaluateStructural("LoginScreen.swift", content, StructuralOptions{})
	assert.Empty(t, none)
}
