// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/scoreport"
	"github.com/ik5/scoreport/internal/config"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// startWatcher runs w until the test ends.
func startWatcher(t *testing.T, w *watcher) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, started) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	select {
	case <-started:
	case err := <-done:
		t.Fatalf("watcher stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}
}

func TestWatcher_Matches(t *testing.T) {
	t.Parallel()

	w := newWatcher(filepath.Join("songs", "**", "*.yaml"), discard(), nil)
	assert.Equal(t, "songs", w.root())
	assert.True(t, w.matches(filepath.Join("songs", "a.yaml")))
	assert.True(t, w.matches(filepath.Join("songs", "x", "y", "a.yaml")))
	assert.False(t, w.matches(filepath.Join("songs", "a.mid")))
	assert.False(t, w.matches(filepath.Join("other", "a.yaml")))
}

func TestWatcher_CoalescesWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	w := newWatcher(filepath.Join(dir, "*.yaml"), discard(), rec.record)
	w.debounce = 200 * time.Millisecond
	startWatcher(t, w)

	path := filepath.Join(dir, "etude.yaml")
	for range 3 {
		writeFile(t, path, etude)
	}
	writeFile(t, filepath.Join(dir, "readme.txt"), "ignored")

	require.Eventually(t, func() bool { return len(rec.seen()) > 0 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(3 * w.debounce)
	assert.Equal(t, []string{path}, rec.seen())
}

func TestWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	w := newWatcher(filepath.Join(dir, "**", "*.yaml"), discard(), rec.record)
	startWatcher(t, w)

	path := writeFile(t, filepath.Join(dir, "album", "track.yaml"), etude)

	require.Eventually(t, func() bool {
		for _, p := range rec.seen() {
			if p == path {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_ReexportsMIDI(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	b := newBatch(config.Default(), scoreport.FormatMIDI, "", out, discard())
	w := newWatcher(filepath.Join(dir, "*.yaml"), discard(), func(ctx context.Context, path string) {
		_, _ = b.exportFile(ctx, path)
	})
	startWatcher(t, w)

	writeFile(t, filepath.Join(dir, "etude.yaml"), etude)

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "etude.mid"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_BadPattern(t *testing.T) {
	t.Parallel()

	w := newWatcher(filepath.Join(t.TempDir(), "[.yaml"), discard(), nil)
	require.Error(t, w.Run(context.Background(), nil))
}
