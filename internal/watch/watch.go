// Package watch notifies when a repository's working tree or metadata changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/promptns/internal/debounce"
)

// maxDirs bounds how many directories a single watcher registers.
const maxDirs = 4096

type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
}

// New watches root (a working tree) and its .git directory. onChange runs
// once per burst of events, delay after the last one.
func New(root string, delay time.Duration, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	paths, err := watchPaths(root)
	if err != nil {
		return nil, errors.Join(err, w.Close())
	}
	for _, path := range paths {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := w.Add(path); err != nil {
			err := errors.Join(err, w.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	return &Watcher{
		root:     root,
		watcher:  w,
		debounce: debounce.New(delay, onChange),
	}, nil
}

// Run forwards filesystem events until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnoreWatchPath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			if ev.Op&fsnotify.Create != 0 {
				w.addIfDir(ev.Name)
			}
			w.debounce.Trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.watcher.Close()
}

func (w *Watcher) addIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || isGitInternal(w.root, path) {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		slog.Debug("watch new directory", slog.String("path", path), slog.Any("error", err))
	}
}

// watchPaths lists the working tree directories plus the parts of .git that
// change when HEAD, the index or refs move.
func watchPaths(root string) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("watch: empty root")
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if len(paths) >= maxDirs {
			return filepath.SkipAll
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		paths = append(paths, gitDir)
		for _, sub := range []string{"refs/heads", "refs/remotes"} {
			dir := filepath.Join(gitDir, filepath.FromSlash(sub))
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				paths = append(paths, dir)
			}
		}
		remotes, _ := os.ReadDir(filepath.Join(gitDir, "refs", "remotes"))
		for _, r := range remotes {
			if r.IsDir() {
				paths = append(paths, filepath.Join(gitDir, "refs", "remotes", r.Name()))
			}
		}
	}
	return paths, nil
}

func isGitInternal(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first == ".git"
}

func shouldIgnoreWatchPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
