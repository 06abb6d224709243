package sequencer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputCache_AddAndDestroy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CommitSequence_1.txt")
	cache, err := newOutputCache(path, 10)
	require.NoError(t, err)

	require.NoError(t, cache.add("commit-a"))
	require.NoError(t, cache.add("commit-b"))
	require.NoError(t, cache.add("commit-c"))
	require.NoError(t, cache.destroy())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "commit-a\ncommit-b\ncommit-c\n", string(data))
	assert.Equal(t, 3, cache.totalCommits())
}

func TestOutputCache_FlushesAtCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CommitSequence_1.txt")
	cache, err := newOutputCache(path, 2)
	require.NoError(t, err)

	require.NoError(t, cache.add("one"))
	require.NoError(t, cache.add("two"))

	// Buffer full but not yet flushed; the file must still be empty.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	// The third add forces a flush of the first two before buffering.
	require.NoError(t, cache.add("three"))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	require.NoError(t, cache.destroy())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))
	assert.Equal(t, 3, cache.totalCommits())
}

func TestOutputCache_BlankCommitIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CommitSequence_1.txt")
	cache, err := newOutputCache(path, 10)
	require.NoError(t, err)

	require.NoError(t, cache.add(""))
	require.NoError(t, cache.add("   "))
	require.NoError(t, cache.add("real"))
	require.NoError(t, cache.destroy())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "real\n", string(data))
	assert.Equal(t, 1, cache.totalCommits())
}

func TestOutputCache_DestroyWithEmptyBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CommitSequence_1.txt")
	cache, err := newOutputCache(path, 10)
	require.NoError(t, err)

	require.NoError(t, cache.destroy())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, 0, cache.totalCommits())
}

func TestOutputCache_CreateFailsInMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "CommitSequence_1.txt")
	_, err := newOutputCache(path, 10)
	require.Error(t, err)

	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeCacheIO, re.Code)
}

func TestOutputCache_ZeroCapacityUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CommitSequence_1.txt")
	cache, err := newOutputCache(path, 0)
	require.NoError(t, err)
	defer cache.destroy()

	assert.Equal(t, DefaultCacheCapacity, cache.capacity)
}
