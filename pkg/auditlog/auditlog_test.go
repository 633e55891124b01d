package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install", "setup.log")
	l := New(path)
	l.Now = func() time.Time { return time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC) }

	require.NoError(t, l.Append("install started"))
	require.NoError(t, l.Appendf("step %s: %s", "store-init", "Success"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-08-29 09:30:00 - install started", lines[0])
	assert.Equal(t, "2026-08-29 09:30:00 - step store-init: Success", lines[1])
}

func TestAppendIsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.log")
	require.NoError(t, os.WriteFile(path, []byte("preexisting line\n"), 0o644))

	l := New(path)
	require.NoError(t, l.Append("new entry"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "preexisting line\n"))
	assert.Contains(t, string(data), "new entry")
}

func TestAppendConcurrent(t *testing.T) {
	// Two Log handles on the same path contend on the lock file; every
	// line must arrive intact.
	path := filepath.Join(t.TempDir(), "setup.log")
	a, b := New(path), New(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Append("from-a"))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Append("from-b"))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 40)
	for _, line := range lines {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - from-[ab]$`, line)
	}
}
