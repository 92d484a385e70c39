package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// presetWatcher reports changes to one file. It watches the parent
// directory so editors that save by renaming over the file are seen too.
type presetWatcher struct {
	file     string
	w        *fsnotify.Watcher
	debounce time.Duration
	OnChange func()
	OnError  func(error)
}

func newPresetWatcher(file string, debounce time.Duration) (*presetWatcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &presetWatcher{file: abs, w: w, debounce: debounce}, nil
}

func (pw *presetWatcher) Close() {
	pw.w.Close() // will close pw.w.{Events,Errors} chans
}

// relevant reports whether ev changes the contents of file.
func relevant(file string, ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != file {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// EventLoop delivers OnChange once per burst of events, after the file has
// been quiet for the debounce interval. It returns when ctx is done or the
// watcher is closed.
func (pw *presetWatcher) EventLoop(ctx context.Context) {
	timer := time.NewTimer(pw.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-pw.w.Events:
			if !ok {
				return
			}
			if !relevant(pw.file, ev) {
				continue
			}
			timer.Reset(pw.debounce)
		case err, ok := <-pw.w.Errors:
			if !ok {
				return
			}
			if pw.OnError != nil {
				pw.OnError(err)
			}
		case <-timer.C:
			pw.OnChange()
		}
	}
}
