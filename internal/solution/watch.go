package solution

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long Watch waits for the directory to settle
// before refreshing.
const DebounceInterval = 200 * time.Millisecond

// Watch refreshes s whenever its directory changes and passes the new
// listing to onChange. onChange is called once at start and then after
// each burst of changes. Watch blocks until ctx is done.
func Watch(ctx context.Context, s *Store, onChange func([]Entry, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.Dir()); err != nil {
		return err
	}
	s.log.Info("watching %s", s.Dir())

	onChange(s.Refresh())

	timer := time.NewTimer(DebounceInterval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !isSolutionFile(ev.Name) {
				continue
			}
			s.log.Debug("store event %s %s", ev.Op, filepath.Base(ev.Name))
			timer.Reset(DebounceInterval)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error: %v", err)

		case <-timer.C:
			onChange(s.Refresh())
		}
	}
}

func isSolutionFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, fileExt) && !strings.HasPrefix(name, ".")
}
