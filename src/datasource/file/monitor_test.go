package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMonitorReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.csv")
	require.NoError(t, os.WriteFile(path, []byte("지역\n"), 0o644))

	m, err := NewFileMonitor(path)
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, func(p string) { changed <- p })
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o644))

	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("지역\n서울\n"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	select {
	case p := <-changed:
		want, _ := filepath.Abs(path)
		assert.Equal(t, want, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestFileMonitorCoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.csv")
	require.NoError(t, os.WriteFile(path, []byte("지역\n"), 0o644))

	m, err := NewFileMonitor(path)
	require.NoError(t, err)
	defer m.Close()
	m.Quiet = 300 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go m.Watch(ctx, func(string) { calls.Add(1) })

	for i := 1; i <= 5; i++ {
		stamp := time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("서울\n", i)), 0o644))
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(2 * m.Quiet)
	assert.Equal(t, int32(1), calls.Load())
}
