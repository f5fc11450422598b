package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the document at path whenever it changes and passes the
// result to fn, until ctx is cancelled. Decode failures are reported through
// fn so a host can keep its previous schema. The parent directory is watched
// so editors that replace files on save are handled.
func Watch(ctx context.Context, path string, fn func(Document, error), opts ...Option) error {
	cfg := newConfig(opts)

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("loader: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("loader: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("loader: watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cfg.logger.Debug("loader: schema file changed", zap.String("path", abs), zap.Stringer("op", event.Op))
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			doc, err := Load(ctx, SourceFromFile(abs), opts...)
			if err != nil && errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				cfg.logger.Warn("loader: reload failed", zap.String("path", abs), zap.Error(err))
			}
			fn(doc, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Warn("loader: watcher error", zap.Error(err))
		}
	}
}
