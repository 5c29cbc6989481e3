// Package gitdiff lists the files a pull request changed.
package gitdiff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/designbible/biblecheck/internal/log"
)

// ErrNoBaseRef means the environment does not describe a pull request.
var ErrNoBaseRef = errors.New("no base reference in environment")

// ErrInvalidBaseRef marks a base reference git could never accept as a ref
// name, such as one that would be parsed as an option.
var ErrInvalidBaseRef = errors.New("invalid base reference")

// Differ returns the paths changed between base and the current checkout.
type Differ interface {
	ChangedFiles(ctx context.Context, base string) ([]string, error)
}

// BaseRef resolves the comparison branch from the CI environment.
func BaseRef() (string, error) {
	for _, key := range []string{"GITHUB_BASE_REF", "GITHUB_REF_NAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, nil
		}
	}
	return "", ErrNoBaseRef
}

// Git shells out to the git binary in Dir.
type Git struct {
	Dir string
}

// ChangedFiles fetches base (best effort, shallow) and lists the names
// changed in origin/base...HEAD.
func (g Git) ChangedFiles(ctx context.Context, base string) ([]string, error) {
	if base == "" || strings.HasPrefix(base, "-") || strings.ContainsAny(base, " \t\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseRef, base)
	}

	if _, err := g.run(ctx, "fetch", "--depth=1", "--end-of-options", "origin", base); err != nil {
		log.Debug("git fetch failed, diffing against local refs", "base", base, "error", err)
	}

	out, err := g.run(ctx, "diff", "--name-only", "--end-of-options", fmt.Sprintf("origin/%s...HEAD", base))
	if err != nil {
		return nil, fmt.Errorf("git diff against %s: %w", base, err)
	}
	return parseNames(out), nil
}

func (g Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func parseNames(out string) []string {
	names := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
