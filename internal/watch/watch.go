// Package watch re-runs an action whenever a file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/runestr/internal/logging"
)

// Errors returned by the watcher.
var (
	// ErrWatcherClosed is returned when the event stream ends unexpectedly.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrPathNotExist is returned when the watched file does not exist.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrNotFile is returned when the watched path is a directory.
	ErrNotFile = errors.New("path is not a regular file")
)

// Event describes a coalesced change.
type Event struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// Watcher watches one file. It watches the file's directory so that
// editors replacing the file through a rename are still seen.
type Watcher struct {
	path  string
	delay time.Duration
	fsw   *fsnotify.Watcher
}

// New creates a watcher for the file at path. Changes are reported once
// delay has passed without further activity.
func New(path string, delay time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{path: absPath, delay: delay, fsw: fsw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange on the calling goroutine after every burst of changes
// to the file, until ctx is done or onChange fails. It returns nil when ctx
// is canceled. Run closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, Event) error) error {
	defer w.fsw.Close()

	log := logging.FromContext(ctx).WithValues("path", w.path)

	fire := make(chan struct{}, 1)
	var last Event
	deb := NewDebouncer(w.delay, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			log.V(logging.DEBUG).Info("watch stopped")
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev.Op) {
				continue
			}
			log.V(logging.TRACE).Info("file event", "op", ev.Op.String())
			last.Path, last.Time = w.path, time.Now()
			last.Op |= ev.Op
			deb.Trigger()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			log.Error(err, "watch error")

		case <-fire:
			ev := last
			last = Event{}
			if err := onChange(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// relevant reports whether op may have changed the file content.
func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
