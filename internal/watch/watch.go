// Package watch reruns an action when watched files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher calls Run after changes below Paths settle for Debounce. Paths may
// name files or directories; directories are watched recursively. Runs never
// overlap.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	Run      func() error
	Logger   *slog.Logger

	files map[string]bool
	dirs  []string
}

// Start watches until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := w.open()
	if err != nil {
		return err
	}
	defer fw.Close()
	return w.loop(ctx, fw)
}

func (w *Watcher) open() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w.files = map[string]bool{}
	w.dirs = nil
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
			w.addDirsRecursive(fw, abs)
			continue
		}
		// editors replace files on save, so the parent directory is watched
		w.files[abs] = true
		if err := fw.Add(filepath.Dir(abs)); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}
	return fw, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					w.addDirsRecursive(fw, ev.Name)
				}
			}
			w.logger().Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			w.run()
		}
	}
}

func (w *Watcher) run() {
	start := time.Now()
	if err := w.Run(); err != nil {
		w.logger().Warn("rebuild failed", "error", err)
		return
	}
	w.logger().Info("rebuilt", "duration", time.Since(start))
}

func (w *Watcher) relevant(path string) bool {
	if shouldIgnore(path) {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	for _, dir := range w.dirs {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := fw.Add(path); err != nil {
				w.logger().Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// shouldIgnore matches hidden files and editor swap or backup files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}
