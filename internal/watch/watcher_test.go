package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeBatch(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "measurements.csv")
	require.NoError(t, os.WriteFile(path, []byte("sex,metric,value,age_months\nmale,weight,7.9,6\n"), 0644))
	return path
}

func TestNewWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeBatch(t, dir)

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, defaultDebounce},
		{"custom debounce", time.Second, time.Second},
		{"negative debounce defaults", -time.Second, defaultDebounce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWatcher(path, tt.debounce, nil)
			require.NoError(t, err)
			defer w.Stop()

			assert.Equal(t, tt.want, w.debounce)
			assert.True(t, filepath.IsAbs(w.Path()))
			assert.NotNil(t, w.logger)
		})
	}
}

func TestNewWatcherErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewWatcher(filepath.Join(dir, "missing.csv"), 0, nil)
	assert.Error(t, err, "missing file")

	_, err = NewWatcher(dir, 0, nil)
	assert.Error(t, err, "directory")
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	path := writeBatch(t, dir)
	w, err := NewWatcher(path, time.Second, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	tests := []struct {
		name    string
		event   fsnotify.Event
		pending bool
	}{
		{"write to file", fsnotify.Event{Name: w.Path(), Op: fsnotify.Write}, true},
		{"replace on save", fsnotify.Event{Name: w.Path(), Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: w.Path(), Op: fsnotify.Rename}, true},
		{"chmod ignored", fsnotify.Event{Name: w.Path(), Op: fsnotify.Chmod}, false},
		{"other file ignored", fsnotify.Event{Name: filepath.Join(filepath.Dir(w.Path()), "other.csv"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.pending = time.Time{}
			w.handleEvent(tt.event)
			assert.Equal(t, tt.pending, !w.pending.IsZero())
		})
	}
}

func TestTakeReady(t *testing.T) {
	path := writeBatch(t, t.TempDir())
	w, err := NewWatcher(path, time.Second, nil)
	require.NoError(t, err)
	defer w.Stop()

	now := time.Now()
	assert.False(t, w.takeReady(now), "nothing pending")

	w.pending = now
	assert.False(t, w.takeReady(now.Add(500*time.Millisecond)), "still settling")
	assert.True(t, w.takeReady(now.Add(time.Second)))
	assert.False(t, w.takeReady(now.Add(2*time.Second)), "cleared after firing")
}

func TestWatcherCallsBackOnChange(t *testing.T) {
	path := writeBatch(t, t.TempDir())
	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	var out bytes.Buffer
	w.SetOutput(&out)

	var calls atomic.Int32
	w.SetCallback(func(p string) {
		assert.Equal(t, w.Path(), p)
		calls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// The watch is added asynchronously; keep touching the file until it is seen.
	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		require.NoError(t, os.WriteFile(path, []byte("sex,metric,value,age_months\nmale,weight,8.9,6\n"), 0644))
		time.Sleep(100 * time.Millisecond)
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Positive(t, calls.Load())
}
