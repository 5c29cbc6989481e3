// Package watch re-runs the compliance checks when the source tree changes.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/designbible/biblecheck/internal/log"
	"github.com/designbible/biblecheck/internal/scan"
)

// DefaultDebounce coalesces editor save bursts into one run.
const DefaultDebounce = 300 * time.Millisecond

var skippedDirs = map[string]struct{}{".git": {}, ".hg": {}, ".svn": {}}

// Watcher observes every directory below a root.
type Watcher struct {
	root   string
	ignore scan.Matcher
	fsw    *fsnotify.Watcher
}

// New starts watching root recursively. Directories matched by ignore are
// not watched.
func New(root string, ignore scan.Matcher) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: root, ignore: ignore, fsw: fsw}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls onChange after each burst of relevant events settles for
// debounce. Calls are serialized. Run returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func(context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// new directories need their own watch
				_ = w.addRecursive(ev.Name)
			}
			log.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-timer.C:
			onChange(ctx)
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if _, skip := skippedDirs[part]; skip {
			return false
		}
	}
	return !w.ignore.Match(rel)
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := skippedDirs[d.Name()]; skip && path != w.root {
			return filepath.SkipDir
		}
		if path != w.root && !w.relevant(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
