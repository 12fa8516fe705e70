package filelock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")
	lock := NewFileLock(lockPath)

	require.NoError(t, lock.Lock())

	other := NewFileLock(lockPath)
	acquired, err := other.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired, "lock is already held")

	require.NoError(t, lock.Unlock())

	acquired, err = other.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, other.Unlock())
}

func TestAtomicWriteMemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, AtomicWrite(fs, "/out/report.json", []byte("v1"), 0644))
	require.NoError(t, AtomicWrite(fs, "/out/report.json", []byte("v2"), 0644))

	data, err := afero.ReadFile(fs, "/out/report.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLockAndWriteConcurrent(t *testing.T) {
	fs := afero.NewOsFs()
	path := filepath.Join(t.TempDir(), "nested", "report.md")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, LockAndWrite(fs, path, []byte(fmt.Sprintf("writer %d", i)), 0644))
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `^writer \d$`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
