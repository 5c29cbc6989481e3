// Package scan discovers the source files the compliance checks evaluate.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var ignoredDirs = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
}

// SourceExtensions are the files the pattern rules look at.
var SourceExtensions = []string{".swift", ".m", ".mm", ".h"}

// File is one discovered file.
type File struct {
	FullPath string
	// RelPath is relative to the scan root and always uses forward slashes.
	RelPath string
}

// Artifact is a discovered file that represents a named UI screen.
type Artifact struct {
	Name string
	File
}

// Filter decides from a base name whether a file is a candidate.
type Filter func(name string) bool

// Extensions accepts files whose extension is in exts.
func Extensions(exts ...string) Filter {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[filepath.Ext(name)]
		return ok
	}
}

// Suffix accepts files whose name ends with suffix.
func Suffix(suffix string) Filter {
	return func(name string) bool {
		return strings.HasSuffix(name, suffix)
	}
}

// Options controls a discovery walk.
type Options struct {
	Include Filter
	Ignore  Matcher
}

// Files walks root and returns every regular file (or symlink to one) accepted by opts.Include
// and not matched by opts.Ignore, sorted by relative path. Unreadable
// subdirectories are skipped; only an unreadable root is an error.
func Files(root string, opts Options) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("unable to scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("unable to scan %s: not a directory", root)
	}

	files := make([]File, 0, 64)
	err = filepath.WalkDir(root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if current == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if _, skip := ignoredDirs[d.Name()]; skip && current != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !regular(current, d) {
			return nil
		}
		if opts.Include != nil && !opts.Include(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, current)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if opts.Ignore.Match(rel) {
			return nil
		}

		files = append(files, File{FullPath: current, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to scan %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// regular accepts regular files and symlinks to regular files. Symlinked
// directories are never descended.
func regular(current string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(current)
	return err == nil && info.Mode().IsRegular()
}

// Screens turns discovered screen files into artifacts named after the
// file's base name without its extension (LoginScreen.swift -> LoginScreen).
func Screens(files []File) []Artifact {
	out := make([]Artifact, 0, len(files))
	for _, f := range files {
		base := path.Base(f.RelPath)
		out = append(out, Artifact{
			Name: strings.TrimSuffix(base, path.Ext(base)),
			File: f,
		})
	}
	return out
}

// Exclude drops artifacts whose path is matched by m.
func Exclude(artifacts []Artifact, m Matcher) []Artifact {
	if m.Empty() {
		return artifacts
	}
	out := make([]Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if !m.Match(a.RelPath) {
			out = append(out, a)
		}
	}
	return out
}
