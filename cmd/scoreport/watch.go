// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ik5/scoreport"
)

const defaultDebounce = 50 * time.Millisecond

// watcher re-runs onChange for composition files matching pattern. Events
// for the same file inside the debounce window collapse into one call.
type watcher struct {
	pattern  string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(ctx context.Context, path string)
}

func newWatcher(pattern string, logger *slog.Logger, onChange func(ctx context.Context, path string)) *watcher {
	return &watcher{
		pattern:  filepath.Clean(pattern),
		debounce: defaultDebounce,
		logger:   logger,
		onChange: onChange,
	}
}

// root is the directory part of the pattern before its first wildcard.
func (w *watcher) root() string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(w.pattern))
	return filepath.FromSlash(base)
}

func (w *watcher) matches(name string) bool {
	ok, err := doublestar.PathMatch(w.pattern, filepath.Clean(name))
	return err == nil && ok
}

// addTree watches dir and every directory below it, returning the matching
// files already present.
func (w *watcher) addTree(fw *fsnotify.Watcher, dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if w.matches(path) {
				found = append(found, path)
			}
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.logger.Debug("watching", "dir", path)
		return nil
	})
	return found, err
}

// Run blocks until ctx is done. started, when not nil, is closed once the
// directories are being watched.
func (w *watcher) Run(ctx context.Context, started chan<- struct{}) error {
	if !doublestar.ValidatePathPattern(w.pattern) {
		return fmt.Errorf("%w: %s", doublestar.ErrBadPattern, w.pattern)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if _, err := w.addTree(fw, w.root()); err != nil {
		return err
	}
	if started != nil {
		close(started)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// files may land in a new directory before it is watched
					found, err := w.addTree(fw, event.Name)
					if err != nil {
						w.logger.Error("watch failed", "dir", event.Name, "error", err)
					}
					for _, p := range found {
						pending[p] = struct{}{}
					}
					if len(found) > 0 {
						timer.Reset(w.debounce)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			for _, p := range paths {
				w.onChange(ctx, p)
			}
		}
	}
}

var (
	watchFormat string
	watchOut    string
	watchRender string
)

var watchCmd = &cobra.Command{
	Use:   "watch <composition-glob>",
	Short: "Re-export compositions whenever they change",
	Long: `Watch follows the directories under the glob and re-exports every matching
composition that is created or written. Rapid successive saves are coalesced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := scoreport.ParseFormat(watchFormat)
		if err != nil {
			return err
		}

		logger := slog.Default()
		b := newBatch(cfg, f, watchRender, watchOut, logger)
		w := newWatcher(args[0], logger, func(ctx context.Context, path string) {
			if _, err := b.exportFile(ctx, path); err != nil {
				logger.Error("export failed", "source", path, "error", err)
			}
		})

		logger.Info("watching", "pattern", args[0], "format", f)
		return w.Run(cmd.Context(), nil)
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", string(scoreport.FormatMIDI), "Export format (midi, wav, mp3)")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "Output directory (default from config)")
	watchCmd.Flags().StringVarP(&watchRender, "render", "r", "", "Pre-rendered audio file for wav and mp3")
	rootCmd.AddCommand(watchCmd)
}
