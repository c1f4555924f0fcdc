// Package watch rebuilds a registry whenever its data directory changes.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/burgrp-go/flhash/pkg/logger"
	"github.com/burgrp-go/flhash/pkg/registry"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

var ErrStarted = errors.New("watcher already started")

type Options struct {
	// Debounce is the quiet period after the last change before a rebuild.
	Debounce time.Duration
	// OnRebuild is called after every rebuild attempt from the watcher
	// goroutine.
	OnRebuild func(registry.Stats, error)
}

type Watcher struct {
	reg       *registry.Registry
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	onRebuild func(registry.Stats, error)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New prepares a watcher for a registry that has already been built once.
func New(reg *registry.Registry, opts Options) (*Watcher, error) {
	if reg.Root() == "" {
		return nil, registry.ErrNotBuilt
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		reg:       reg,
		watcher:   watcher,
		debounce:  opts.Debounce,
		onRebuild: opts.OnRebuild,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w, nil
}

// Start watches every directory below the registry root and processes
// events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if w.cancel != nil {
		return ErrStarted
	}

	root := w.reg.Root()
	if err := w.addTree(root); err != nil {
		return err
	}
	logger.L.Info("watching for changes", "root", root)

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.L.Warn("watch error", "error", err)

		case <-timer.C:
			w.rebuild()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.L.Warn("cannot watch directory", "path", event.Name, "error", err)
			}
			return true
		}
	}

	// a removed or renamed directory can no longer be told apart from a file
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return true
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		return w.reg.IsConfigFile(filepath.Base(event.Name))
	}
	return false
}

func (w *Watcher) rebuild() {
	err := w.reg.Rebuild()
	if err != nil {
		logger.L.Error("rebuild failed, keeping previous registry", "error", err)
	}
	if w.onRebuild != nil {
		w.onRebuild(w.reg.Stats(), err)
	}
}
