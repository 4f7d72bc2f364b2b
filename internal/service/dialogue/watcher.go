package dialogue

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/sandevgo/musage/pkg/log"
)

// RulesWatcher reloads a rule document when it changes on disk and swaps it
// into the classifier. Invalid documents are logged and the previous rules
// stay active.
type RulesWatcher struct {
	path       string
	classifier *Classifier
	watcher    *fsnotify.Watcher
}

// NewRulesWatcher starts watching the directory of path right away, so
// changes made before Start runs are not lost.
func NewRulesWatcher(path string, classifier *Classifier) (*RulesWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace files on save, so the directory is watched.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch rules dir: %w", err)
	}
	return &RulesWatcher{path: filepath.Clean(path), classifier: classifier, watcher: w}, nil
}

func (w *RulesWatcher) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("path", w.path).Msg("watching dialogue rules")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("rules watcher error")
		}
	}
}

func (w *RulesWatcher) Shutdown(ctx context.Context) error {
	return w.watcher.Close()
}

func (w *RulesWatcher) reload(ctx context.Context) {
	rules, err := LoadRulesFile(w.path)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("ignoring invalid dialogue rules")
		return
	}
	w.classifier.Swap(rules)
	log.FromCtx(ctx).Info().Msg("dialogue rules reloaded")
}
