// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-segments a file every time it changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/fenceline/internal/logging"
	"github.com/jeranaias/fenceline/internal/segment"
)

const (
	// DefaultDebounce is the quiet period before a change is processed.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultPollInterval is the polling watcher's check interval.
	DefaultPollInterval = 250 * time.Millisecond
)

// =============================================================================
// TYPES
// =============================================================================

// Update is the segmentation of the file after a change.
type Update struct {
	Path       string
	Buffer     string
	Segments   []segment.Segment
	Issues     []segment.ValidationIssue
	Incomplete bool
	At         time.Time
}

// Handler receives updates. Calls are serialized.
type Handler func(Update)

// Options configures a watcher.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	Logger       *logrus.Logger
}

func (o *Options) setDefaults() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
}

// FileWatcher is the interface for file watching implementations.
type FileWatcher interface {
	// Watch emits the current segmentation and starts watching for changes.
	Watch() error

	// Close stops watching and releases resources.
	Close() error
}

// New returns an fsnotify watcher, or a polling watcher when fsnotify
// cannot be initialized.
func New(path string, handler Handler, opts Options) (FileWatcher, error) {
	opts.setDefaults()
	fw, err := NewFsnotifyWatcher(path, handler, opts)
	if err == nil {
		return fw, nil
	}
	opts.Logger.WithError(err).Warn("fsnotify unavailable, falling back to polling")
	return NewPollingWatcher(path, handler, opts), nil
}

// =============================================================================
// SEGMENTER
// =============================================================================

// resegmenter reads the file and emits an Update when its content changed
// since the last emission.
type resegmenter struct {
	path    string
	handler Handler
	log     *logrus.Logger

	mu      sync.Mutex
	last    string
	emitted bool
}

func (r *resegmenter) run() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	buffer := string(data)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emitted && buffer == r.last {
		return nil
	}
	r.last, r.emitted = buffer, true

	u := Update{
		Path:       r.path,
		Buffer:     buffer,
		Segments:   segment.Split(buffer),
		Issues:     segment.ValidateSyntax(buffer),
		Incomplete: segment.HasIncompleteCodeBlock(buffer),
		At:         time.Now(),
	}
	r.log.WithFields(logrus.Fields{
		"path":       r.path,
		"bytes":      len(buffer),
		"segments":   len(u.Segments),
		"incomplete": u.Incomplete,
	}).Debug("re-segmented")

	r.handler(u)
	return nil
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher implements FileWatcher using fsnotify. It watches the
// file's directory so editors that replace the file by rename are followed.
type FsnotifyWatcher struct {
	seg      *resegmenter
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *logrus.Logger

	mu      sync.Mutex
	pending time.Time // zero when nothing is pending

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFsnotifyWatcher creates a new fsnotify-based watcher.
func NewFsnotifyWatcher(path string, handler Handler, opts Options) (*FsnotifyWatcher, error) {
	opts.setDefaults()
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FsnotifyWatcher{
		seg:      &resegmenter{path: abs, handler: handler, log: opts.Logger},
		watcher:  watcher,
		debounce: opts.Debounce,
		log:      opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch emits the current segmentation and starts watching.
func (fw *FsnotifyWatcher) Watch() error {
	if err := fw.seg.run(); err != nil {
		return err
	}
	if err := fw.watcher.Add(filepath.Dir(fw.seg.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.seg.path, err)
	}

	fw.wg.Add(2)
	go fw.processEvents()
	go fw.processPending()
	return nil
}

// processEvents records changes to the watched file.
func (fw *FsnotifyWatcher) processEvents() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.seg.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.mu.Unlock()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.WithError(err).Warn("watch error")
		}
	}
}

// processPending re-segments once the file has been quiet for the debounce
// period.
func (fw *FsnotifyWatcher) processPending() {
	defer fw.wg.Done()
	ticker := time.NewTicker(max(fw.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case now := <-ticker.C:
			fw.mu.Lock()
			due := !fw.pending.IsZero() && now.Sub(fw.pending) >= fw.debounce
			if due {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()

			if due {
				if err := fw.seg.run(); err != nil {
					fw.log.WithError(err).Debug("re-segment skipped")
				}
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher implements FileWatcher using periodic polling.
type PollingWatcher struct {
	seg      *resegmenter
	interval time.Duration
	log      *logrus.Logger

	modTime time.Time
	size    int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPollingWatcher creates a new polling-based watcher.
func NewPollingWatcher(path string, handler Handler, opts Options) *PollingWatcher {
	opts.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &PollingWatcher{
		seg:      &resegmenter{path: path, handler: handler, log: opts.Logger},
		interval: opts.PollInterval,
		log:      opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch emits the current segmentation and starts polling.
func (pw *PollingWatcher) Watch() error {
	if _, err := pw.changed(); err != nil {
		return err
	}
	if err := pw.seg.run(); err != nil {
		return err
	}

	pw.wg.Add(1)
	go pw.poll()
	return nil
}

// changed stats the file and reports whether size or mod time moved.
func (pw *PollingWatcher) changed() (bool, error) {
	info, err := os.Stat(pw.seg.path)
	if err != nil {
		return false, err
	}
	moved := !info.ModTime().Equal(pw.modTime) || info.Size() != pw.size
	pw.modTime, pw.size = info.ModTime(), info.Size()
	return moved, nil
}

// poll periodically checks for file changes.
func (pw *PollingWatcher) poll() {
	defer pw.wg.Done()
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			moved, err := pw.changed()
			if err != nil {
				pw.log.WithError(err).Debug("poll failed")
				continue
			}
			if !moved {
				continue
			}
			if err := pw.seg.run(); err != nil {
				pw.log.WithError(err).Debug("re-segment skipped")
			}
		}
	}
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	pw.wg.Wait()
	return nil
}
