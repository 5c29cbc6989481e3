package policy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/designbible/biblecheck/internal/config"
	"github.com/designbible/biblecheck/internal/gitdiff"
	"github.com/designbible/biblecheck/internal/types"
)

// writeTree creates files (slash-separated relative paths) under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

type fakeDiffer struct {
	changed []string
	err     error
	base    string
}

func (f *fakeDiffer) ChangedFiles(_ context.Context, base string) ([]string, error) {
	f.base = base
	return f.changed, f.err
}

func noPR() (string, error) { return "", gitdiff.ErrNoBaseRef }

func testEnv(root string, cfg config.Config) Env {
	return Env{
		Root:    root,
		Config:  cfg,
		Differ:  &fakeDiffer{err: errors.New("no git in tests")},
		BaseRef: noPR,
	}.withDefaults()
}

func run(t *testing.T, check func(context.Context, Env) types.CheckResult, env Env) types.CheckResult {
	t.Helper()
	return check(context.Background(), env)
}
