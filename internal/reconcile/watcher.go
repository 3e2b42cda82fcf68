package reconcile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thornmoor/berkano/internal/scanner"
)

// WatchCallback is called after a watcher-driven reconciliation.
// level is "library" or "notebook"; path is the reconciled directory.
type WatchCallback func(level, path string)

const debounceInterval = 200 * time.Millisecond

// Watch observes the library root and its notebook directories with
// fsnotify and reconciles the affected level after each burst of changes,
// until ctx is cancelled. Changes are debounced so an editor save or a
// bulk copy triggers a single pass. Record files and temporary files are
// ignored, which keeps the watcher from reacting to its own saves.
func (r *Reconciler) Watch(ctx context.Context, root string, cb WatchCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	notebooks, err := scanner.Notebooks(root)
	if err != nil {
		return err
	}
	for _, nb := range notebooks {
		if err := w.Add(filepath.Join(root, nb.Name)); err != nil {
			r.logger.Warn("watcher: add notebook failed",
				slog.String("dir", nb.Name),
				slog.String("error", err.Error()))
		}
	}

	r.logger.Info("watcher: started", slog.String("root", root))

	var (
		timer    *time.Timer
		timerCh  <-chan time.Time
		libDirty bool
		dirty    = map[string]struct{}{}
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounceInterval)
			timerCh = timer.C
		} else {
			timer.Reset(debounceInterval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			r.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for dir := range dirty {
				delete(dirty, dir)
				if _, statErr := os.Stat(dir); statErr != nil {
					continue // removed with its notebook
				}
				if _, recErr := r.Notebook(dir); recErr != nil {
					r.logger.Warn("watcher: reconcile notebook failed",
						slog.String("dir", dir),
						slog.String("error", recErr.Error()))
					continue
				}
				if cb != nil {
					cb("notebook", dir)
				}
			}
			if libDirty {
				libDirty = false
				if _, recErr := r.Library(root); recErr != nil {
					r.logger.Warn("watcher: reconcile library failed",
						slog.String("error", recErr.Error()))
				} else if cb != nil {
					cb("library", root)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			base := filepath.Base(ev.Name)
			if strings.HasPrefix(base, ".") {
				continue
			}

			if filepath.Dir(ev.Name) == root {
				// Root-level change: a notebook appearing or disappearing.
				if ev.Op&fsnotify.Create != 0 {
					info, statErr := os.Stat(ev.Name)
					if statErr != nil || !info.IsDir() || base == scanner.MediaDirName {
						continue
					}
					if addErr := w.Add(ev.Name); addErr != nil {
						r.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					dirty[ev.Name] = struct{}{}
					libDirty = true
					schedule()
				} else if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					delete(dirty, ev.Name)
					libDirty = true
					schedule()
				}
				continue
			}

			// Notebook-level change: only note files matter.
			if !strings.HasSuffix(base, r.noteExt) {
				continue
			}
			dirty[filepath.Dir(ev.Name)] = struct{}{}
			libDirty = true // noteCount changes with the notebook
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}
