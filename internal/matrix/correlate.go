package matrix

import (
	"fmt"
	"strings"

	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
)

// Labels for the three failure classes.
const (
	LabelMissingEntry  = "Missing traceability matrix entry"
	LabelNoComponents  = "No components listed under 'System components used'"
	labelUnknownFormat = "Components not in allowlist (%s)"
)

// Unknown records the listed components of one screen that are not in the
// component allowlist.
type Unknown struct {
	Artifact   scan.Artifact
	Components []string
}

// Findings groups correlation failures by class. Each artifact appears in
// at most one class.
type Findings struct {
	Missing []scan.Artifact
	Empty   []scan.Artifact
	Unknown []Unknown
}

// Correlate checks every artifact against the parsed blocks. Failures are
// collected for all artifacts; nothing stops early. The allowlist is only
// enforced when non-empty.
func Correlate(artifacts []scan.Artifact, blocks []Block, allowlist []string) Findings {
	index := Index(blocks)
	allow := make(map[string]struct{}, len(allowlist))
	for _, c := range allowlist {
		allow[c] = struct{}{}
	}

	var f Findings
	for _, a := range artifacts {
		block, ok := index[a.Name]
		if !ok {
			f.Missing = append(f.Missing, a)
			continue
		}
		if len(block.Components) == 0 {
			f.Empty = append(f.Empty, a)
			continue
		}
		if len(allow) == 0 {
			continue
		}
		var bad []string
		for _, c := range block.Components {
			if _, ok := allow[c]; !ok {
				bad = append(bad, c)
			}
		}
		if len(bad) > 0 {
			f.Unknown = append(f.Unknown, Unknown{Artifact: a, Components: bad})
		}
	}
	return f
}

// Clean reports whether no failures were found.
func (f Findings) Clean() bool {
	return len(f.Missing) == 0 && len(f.Empty) == 0 && len(f.Unknown) == 0
}

// Violations flattens the findings, grouped by class in the order missing,
// no components, unknown components.
func (f Findings) Violations() []types.Violation {
	var out []types.Violation
	for _, a := range f.Missing {
		out = append(out, types.Violation{RuleLabel: LabelMissingEntry, Path: a.RelPath})
	}
	for _, a := range f.Empty {
		out = append(out, types.Violation{RuleLabel: LabelNoComponents, Path: a.RelPath})
	}
	for _, u := range f.Unknown {
		out = append(out, types.Violation{
			RuleLabel: fmt.Sprintf(labelUnknownFormat, strings.Join(u.Components, ", ")),
			Path:      u.Artifact.RelPath,
		})
	}
	return out
}
