package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last directory change before
// the listing is regrouped
const DefaultDebounce = 200 * time.Millisecond

// Watch calls fn with the grouping of dir once at start and again after every
// burst of files being created, removed or renamed. It returns nil when ctx is
// cancelled.
func Watch(ctx context.Context, dir string, debounce time.Duration, fn func(groups []Group, rest []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err = w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	groups, rest, err := ScanDir(dir)
	if err != nil {
		return err
	}
	fn(groups, rest)

	timer := time.NewTimer(debounce)
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
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", dir, err)
		case <-timer.C:
			if groups, rest, err = ScanDir(dir); err != nil {
				return err
			}
			fn(groups, rest)
		}
	}
}
