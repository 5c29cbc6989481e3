package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	s := String()
	assert.Contains(t, s, "biblecheck version")
	assert.Contains(t, s, Version)
}

func TestStringRelease(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.0"
	assert.Contains(t, String(), "biblecheck version v1.2.0 (commit: ")
}

func TestBuildInfo(t *testing.T) {
	info := BuildInfo()
	for _, key := range []string{"version", "commit", "built", "go_version"} {
		assert.Contains(t, info, key)
	}
	assert.Equal(t, GoVersion, info["go_version"])
}
