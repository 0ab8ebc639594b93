package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	watcherComponent = "catalog.Watcher"

	reloadDebounce = 250 * time.Millisecond
)

// ReloadCallback receives a catalog that was successfully reloaded after change on disk.
type ReloadCallback = func(c *Catalog)

// Watcher reloads catalog whenever any of its source files changes.
// Parent directories are observed instead of files, since editors tend to replace files by renaming.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	log       zerolog.Logger
	onReload  ReloadCallback
	paths     []string
	sources   map[string]bool
}

// NewWatcher prepares watcher for the catalog sources under paths.
func NewWatcher(paths []string, onReload ReloadCallback, logger zerolog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not initialize filesystem watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		log:       logger.With().Str("component", watcherComponent).Logger(),
		onReload:  onReload,
		paths:     paths,
		sources:   map[string]bool{},
	}

	dirs := map[string]bool{}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("could not resolve catalog path '%s': %w", path, err)
		}

		w.sources[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		err := fsWatcher.Add(dir)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("could not watch directory '%s': %w", dir, err)
		}
	}

	return w, nil
}

// Watch blocks handling filesystem events until ctx is done or the watcher fails.
func (w *Watcher) Watch(ctx context.Context) {
	defer w.fsWatcher.Close()

	reload := time.NewTimer(reloadDebounce)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isSourceEvent(event) {
				continue
			}

			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("catalog source changed")
			reload.Reset(reloadDebounce)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

			w.log.Error().Err(err).Msg("fs watcher returned an error")
		case <-reload.C:
			w.reload()
		}
	}
}

func (w *Watcher) isSourceEvent(event fsnotify.Event) bool {
	if !shouldReloadCatalog(event.Op) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return w.sources[abs]
}

func (w *Watcher) reload() {
	c, err := LoadFiles(w.paths...)
	if err != nil {
		w.log.Error().Err(err).Msg("could not reload catalog, keeping the previous one")
		return
	}

	w.log.Info().Int("playlists", c.Len()).Msg("catalog reloaded")
	w.onReload(c)
}

func shouldReloadCatalog(op fsnotify.Op) bool {
	return op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
