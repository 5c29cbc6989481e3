package scan

import "strings"

// Matcher tests relative paths against configured path prefixes.
//
// A path matches prefix p when its forward-slash form starts with p or
// contains "/"+p, so a single entry such as "Tests/" covers both top-level
// and nested test directories.
type Matcher struct {
	prefixes []string
}

// NewMatcher builds a matcher; blank entries are dropped.
func NewMatcher(prefixes []string) Matcher {
	m := Matcher{prefixes: make([]string, 0, len(prefixes))}
	for _, p := range prefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		m.prefixes = append(m.prefixes, p)
	}
	return m
}

// Match reports whether rel is covered by any prefix.
func (m Matcher) Match(rel string) bool {
	norm := strings.ReplaceAll(rel, "\\", "/")
	for _, p := range m.prefixes {
		if strings.HasPrefix(norm, p) || strings.Contains(norm, "/"+p) {
			return true
		}
	}
	return false
}

// Empty reports whether the matcher has no prefixes.
func (m Matcher) Empty() bool {
	return len(m.prefixes) == 0
}
