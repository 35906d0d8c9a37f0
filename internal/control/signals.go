// Package control lets another process stop a running session by dropping a
// file into the project's .pycoder/signals directory.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// StateDir is the per-project directory holding signal files.
	StateDir = ".pycoder"
	// StopFile is the file name that requests a stop.
	StopFile = "stop"
)

// ErrStopRequested is the context cause when a stop file was seen.
var ErrStopRequested = errors.New("stop requested")

// SignalsDir returns the signals directory under root.
func SignalsDir(root string) string {
	return filepath.Join(root, StateDir, "signals")
}

// SendStop asks any session watching root to stop.
func SendStop(root string) error {
	dir := SignalsDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create signals directory: %w", err)
	}
	path := filepath.Join(dir, StopFile)
	return os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)), 0644)
}

// Clear removes a pending stop request.
func Clear(root string) error {
	err := os.Remove(filepath.Join(SignalsDir(root), StopFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Watch returns a context that is canceled with ErrStopRequested when a stop
// file appears under root. A stop left over from an earlier run is cleared
// first. Nothing is created on disk: until SendStop makes the signals
// directory, root itself is watched for it. If the watcher cannot start, the
// returned context only follows parent. The release func stops watching and
// must be called.
func Watch(parent context.Context, root string, logger *slog.Logger) (context.Context, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	root = filepath.Clean(root)

	if err := Clear(root); err != nil {
		return nil, nil, fmt.Errorf("clear stale stop signal: %w", err)
	}

	ctx, cancel := context.WithCancelCause(parent)
	done := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			close(done)
			cancel(nil)
		})
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("stop signal watcher unavailable", "error", err)
		return ctx, release, nil
	}
	if _, err := watchPath(watcher, root); err != nil {
		watcher.Close()
		logger.Warn("stop signal watcher unavailable", "dir", root, "error", err)
		return ctx, release, nil
	}

	stopPath := filepath.Join(SignalsDir(root), StopFile)
	stop := func(name string) {
		logger.Info("stop signal received", "file", name)
		_ = Clear(root)
		cancel(ErrStopRequested)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				switch filepath.Clean(event.Name) {
				case stopPath:
					stop(event.Name)
					return
				case filepath.Join(root, StateDir), SignalsDir(root):
					pending, err := watchPath(watcher, root)
					if err != nil {
						logger.Debug("stop signal watcher error", "error", err)
						continue
					}
					if pending {
						stop(stopPath)
						return
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("stop signal watcher error", "error", err)
			}
		}
	}()

	return ctx, release, nil
}

// watchPath watches root and each directory on the way to the signals
// directory that exists so far. It reports whether a stop file is already
// present, which covers a stop written before its directory was watched.
func watchPath(w *fsnotify.Watcher, root string) (bool, error) {
	for _, dir := range []string{root, filepath.Join(root, StateDir), SignalsDir(root)} {
		if _, err := os.Stat(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
		if err := w.Add(dir); err != nil {
			return false, err
		}
	}
	_, err := os.Stat(filepath.Join(SignalsDir(root), StopFile))
	return err == nil, nil
}
