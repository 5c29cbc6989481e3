package gitdiff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRef(t *testing.T) {
	t.Setenv("GITHUB_BASE_REF", "")
	t.Setenv("GITHUB_REF_NAME", "")
	_, err := BaseRef()
	assert.True(t, errors.Is(err, ErrNoBaseRef))

	t.Setenv("GITHUB_REF_NAME", "feature/x")
	ref, err := BaseRef()
	require.NoError(t, err)
	assert.Equal(t, "feature/x", ref)

	t.Setenv("GITHUB_BASE_REF", "main")
	ref, err = BaseRef()
	require.NoError(t, err)
	assert.Equal(t, "main", ref)
}

func TestParseNames(t *testing.T) {
	assert.Equal(t, []string{"a.swift", "COMPLIANCE/PR_DECLARATION.md"}, parseNames("a.swift\n\n COMPLIANCE/PR_DECLARATION.md \n"))
	assert.Empty(t, parseNames(""))
}

func TestChangedFilesOutsideRepository(t *testing.T) {
	_, err := Git{Dir: t.TempDir()}.ChangedFiles(context.Background(), "main")
	assert.Error(t, err)
}

func TestChangedFilesRejectsOptionLikeRefs(t *testing.T) {
	for _, base := range []string{"", "--upload-pack=touch pwned", "-main", "main branch"} {
		_, err := Git{Dir: t.TempDir()}.ChangedFiles(context.Background(), base)
		assert.True(t, errors.Is(err, ErrInvalidBaseRef), "base %q", base)
	}
}
