package persist

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ElsonGrn/sims-explorer/internal/checksum"
)

// ImportFunc receives the raw contents of a dropped graph file.
type ImportFunc func(data []byte) error

// Watch starts an fsnotify watcher on dir and imports any .json file that
// is created or written there, until ctx is cancelled. Editors write files
// in several passes, so events are debounced and a file whose contents did
// not change since its last import is skipped.
func Watch(ctx context.Context, dir string, logger *slog.Logger, importFn ImportFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("import watcher: started", slog.String("dir", dir))

	pending := map[string]struct{}{}
	imported := map[string]string{}

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(200 * time.Millisecond)
		}
	}

	importPending := func() {
		for path := range pending {
			delete(pending, path)

			data, readErr := os.ReadFile(path)
			if readErr != nil {
				logger.Warn("import watcher: read failed",
					slog.String("path", path),
					slog.String("error", readErr.Error()))
				continue
			}
			sum := checksum.Sum(data)
			if imported[path] == sum {
				continue
			}
			if impErr := importFn(data); impErr != nil {
				logger.Warn("import watcher: import failed",
					slog.String("path", path),
					slog.String("error", impErr.Error()))
				continue
			}
			imported[path] = sum
			logger.Info("import watcher: graph imported",
				slog.String("path", path),
				slog.String("checksum", checksum.Short(data)))
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("import watcher: stopped")
			return nil

		case <-debounceCh:
			importPending()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[ev.Name] = struct{}{}
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("import watcher: error", slog.String("error", werr.Error()))
		}
	}
}
