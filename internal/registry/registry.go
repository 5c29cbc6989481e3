// Package registry validates that every screen artifact is listed in the
// screen registry document.
//
// Membership is a plain substring test over the whole document. A name that
// happens to appear in an unrelated context counts as registered; the check
// exists to catch wholesale omissions.
package registry

import (
	"strings"

	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

// LabelNotRegistered marks a screen missing from the registry.
const LabelNotRegistered = "Screen not registered"

// Validate returns one violation per artifact whose name does not occur in
// text, in artifact order.
func Validate(artifacts []scan.Artifact, text string) []types.Violation {
	var out []types.Violation
	for _, a := range artifacts {
		if !strings.Contains(text, a.Name) {
			out = append(out, types.Violation{RuleLabel: LabelNotRegistered, Path: a.RelPath})
		}
	}
	return out
}
