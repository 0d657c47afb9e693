package filesystem

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_MkdirRequiresParent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := mfs.Mkdir("/a/b", 0o755)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, mfs.Mkdir("/a", 0o700))
	require.NoError(t, mfs.Mkdir("/a/b", 0o755))

	info, err := mfs.Stat("/a")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm())

	err = mfs.Mkdir("/a", 0o755)
	assert.True(t, errors.Is(err, fs.ErrExist))
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")

	require.NoError(t, mfs.WriteFile("/test/project/root.txt", []byte("hello"), 0o644))

	content, err := mfs.ReadFile("/test/project/root.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	info, err := mfs.Stat("/test/project/root.txt")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, "root.txt", info.Name())
	assert.Equal(t, int64(5), info.Size())

	err = mfs.WriteFile("/missing/file.txt", nil, 0o644)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_ReadDirSorted(t *testing.T) {
	mfs := NewMemoryFileSystem("/d/sub")
	require.NoError(t, mfs.WriteFile("/d/b.txt", nil, 0o644))
	require.NoError(t, mfs.WriteFile("/d/a.txt", nil, 0o644))
	require.NoError(t, mfs.WriteFile("/d/sub/deep.txt", nil, 0o644))

	entries, err := mfs.ReadDir("/d")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names)
}

func TestMemoryFileSystem_RenameMovesSubtree(t *testing.T) {
	mfs := NewMemoryFileSystem("/src/tree/inner", "/dst")
	require.NoError(t, mfs.WriteFile("/src/tree/inner/leaf.txt", []byte("leaf"), 0o644))

	require.NoError(t, mfs.Rename("/src/tree", "/dst/tree"))

	_, err := mfs.Stat("/src/tree")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	content, err := mfs.ReadFile("/dst/tree/inner/leaf.txt")
	require.NoError(t, err)
	assert.Equal(t, "leaf", string(content))
}

func TestMemoryFileSystem_RenameIntoItselfFails(t *testing.T) {
	mfs := NewMemoryFileSystem("/a/b")

	err := mfs.Rename("/a", "/a/b/a")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestMemoryFileSystem_RemoveAndRemoveAll(t *testing.T) {
	mfs := NewMemoryFileSystem("/d/sub")
	require.NoError(t, mfs.WriteFile("/d/sub/f", nil, 0o644))

	assert.Error(t, mfs.Remove("/d"), "non-empty directory")
	assert.True(t, errors.Is(mfs.Remove("/nope"), fs.ErrNotExist))

	require.NoError(t, mfs.Remove("/d/sub/f"))
	require.NoError(t, mfs.RemoveAll("/d"))
	require.NoError(t, mfs.RemoveAll("/d"), "RemoveAll of a missing path succeeds")

	assert.Equal(t, []string{"/"}, mfs.Paths())
}

func TestMemoryFileSystem_FailOn(t *testing.T) {
	mfs := NewMemoryFileSystem("/locked")
	mfs.FailOn(OpStat, "/locked/child", fs.ErrPermission)

	_, err := mfs.Stat("/locked/child")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))

	mfs.FailOn(OpStat, "/locked/child", nil)
	_, err = mfs.Stat("/locked/child")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_RelativePathsAnchorAtRoot(t *testing.T) {
	mfs := NewMemoryFileSystem()

	require.NoError(t, mfs.Mkdir("rel", 0o755))
	_, err := mfs.Stat("/rel")
	assert.NoError(t, err)
}

func TestMemoryFileSystem_PathUnderFileIsNotADirectory(t *testing.T) {
	mfs := NewMemoryFileSystem("/data")
	require.NoError(t, mfs.WriteFile("/data/blocker", []byte("x"), 0o644))

	_, err := mfs.Stat("/data/blocker/child/leaf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ENOTDIR))
	assert.False(t, errors.Is(err, fs.ErrNotExist))

	err = mfs.Remove("/data/blocker/child")
	assert.True(t, errors.Is(err, syscall.ENOTDIR))

	err = mfs.Mkdir("/data/blocker/child", 0o755)
	assert.True(t, errors.Is(err, syscall.ENOTDIR))

	_, err = mfs.Stat("/data/missing/leaf")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
