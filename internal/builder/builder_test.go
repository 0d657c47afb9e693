package builder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/temporarily/internal/cleanup"
	"github.com/vvka-141/temporarily/internal/files/filesystem"
	"github.com/vvka-141/temporarily/internal/naming"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// newOSBuilder returns a builder whose private roots land in a test temp dir.
func newOSBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	root := t.TempDir()
	reg := cleanup.New(nil)
	t.Cleanup(func() { _ = reg.Close() })
	return New(reg, WithPaths(naming.New(naming.WithTempRoot(root)))), root
}

func newMemoryBuilder(t *testing.T, dirs ...string) (*Builder, *filesystem.MemoryFileSystem) {
	t.Helper()
	mfs := filesystem.NewMemoryFileSystem(dirs...)
	b := New(cleanup.New(nil),
		WithFileSystem(mfs),
		WithPaths(naming.New(naming.WithTempRoot("/tmp"))),
	)
	return b, mfs
}

func fileOpts(baseDir, data string) temporarily.FileOptions {
	return temporarily.FileOptions{PathOptions: temporarily.PathOptions{BaseDir: baseDir}, Data: data}
}

func TestMakeFile_WritesAndCleansUp(t *testing.T) {
	b, _ := newOSBuilder(t)
	dir := t.TempDir()

	f, err := b.MakeFile(fileOpts(dir, "hello"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(f.Path()))
	assert.Equal(t, temporarily.DefaultFileMode, f.Mode())
	assert.Equal(t, "utf8", f.Encoding)

	content, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.True(t, f.HasCleanup())
	require.NoError(t, f.Cleanup())
	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, f.Cleanup(), "second cleanup is a no-op")
	assert.Equal(t, 0, b.Registry().Len())
}

func TestMakeFile_DefaultBaseDirIsPrivate(t *testing.T) {
	b, root := newOSBuilder(t)

	a, err := b.MakeFile(temporarily.FileOptions{Data: "a"})
	require.NoError(t, err)
	c, err := b.MakeFile(temporarily.FileOptions{Data: "c"})
	require.NoError(t, err)

	assert.Equal(t, root, filepath.Dir(filepath.Dir(a.Path())))
	assert.NotEqual(t, filepath.Dir(a.Path()), filepath.Dir(c.Path()))
	// one action for each file and one for each private root
	assert.Equal(t, 4, b.Registry().Len())
}

func TestMakeFile_ExtensionAndPattern(t *testing.T) {
	b, _ := newOSBuilder(t)
	dir := t.TempDir()

	f, err := b.MakeFile(temporarily.FileOptions{
		PathOptions: temporarily.PathOptions{BaseDir: dir, NamePattern: "report-{dd}", Extension: "csv"},
	})
	require.NoError(t, err)
	assert.Regexp(t, `report-\d{2}\.csv$`, f.Path())
}

func TestMakeDir_IdempotentForFixedName(t *testing.T) {
	b, _ := newOSBuilder(t)
	base := t.TempDir()
	opts := temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: base, NamePattern: "fixed"}}

	first, err := b.MakeDir(opts)
	require.NoError(t, err)
	assert.True(t, first.HasCleanup())

	second, err := b.MakeDir(opts)
	require.NoError(t, err)
	assert.Equal(t, first.Path(), second.Path())
	assert.False(t, second.HasCleanup())
	assert.NoError(t, second.Cleanup())

	info, err := os.Stat(first.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMakeDir_RelocatesChildren(t *testing.T) {
	b, _ := newOSBuilder(t)

	fa, err := b.MakeFile(temporarily.FileOptions{Data: "a"})
	require.NoError(t, err)
	fb, err := b.MakeFile(temporarily.FileOptions{Data: "b"})
	require.NoError(t, err)
	oldA, oldB := fa.Path(), fb.Path()

	dir, err := b.MakeDirWith(fa, fb)
	require.NoError(t, err)
	require.Len(t, dir.Children, 2)

	entries, err := os.ReadDir(dir.Path())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for old, want := range map[string]string{oldA: "a", oldB: "b"} {
		moved := filepath.Join(dir.Path(), filepath.Base(old))
		content, err := os.ReadFile(moved)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))

		_, err = os.Stat(old)
		assert.True(t, os.IsNotExist(err), "%s should no longer exist", old)
	}
	assert.Equal(t, filepath.Join(dir.Path(), filepath.Base(oldA)), fa.Path())
	assert.Equal(t, filepath.Join(dir.Path(), filepath.Base(oldB)), fb.Path())
}

func TestMakeDir_NestedRelocationRewritesDescendants(t *testing.T) {
	b, _ := newOSBuilder(t)

	leaf, err := b.MakeFile(temporarily.FileOptions{Data: "leaf"})
	require.NoError(t, err)
	inner, err := b.MakeDirWith(leaf)
	require.NoError(t, err)
	outer, err := b.MakeDirWith(inner)
	require.NoError(t, err)

	assert.Equal(t, outer.Path(), filepath.Dir(inner.Path()))
	assert.Equal(t, inner.Path(), filepath.Dir(leaf.Path()))

	content, err := os.ReadFile(leaf.Path())
	require.NoError(t, err)
	assert.Equal(t, "leaf", string(content))

	// The leaf's cleanup follows it to the new location.
	require.NoError(t, leaf.Cleanup())
	_, err = os.Stat(leaf.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, inner.Cleanup())
	_, err = os.Stat(inner.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFlushAll_RemovesEverything(t *testing.T) {
	b, root := newOSBuilder(t)
	base := t.TempDir()

	var created []string
	for i := 0; i < 3; i++ {
		f, err := b.MakeFile(fileOpts(base, "x"))
		require.NoError(t, err)
		created = append(created, f.Path())
	}
	for i := 0; i < 2; i++ {
		d, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: base}})
		require.NoError(t, err)
		created = append(created, d.Path())
	}
	nested, err := b.MakeFile(temporarily.FileOptions{Data: "n"})
	require.NoError(t, err)
	created = append(created, nested.Path(), filepath.Dir(nested.Path()))

	require.NoError(t, b.Registry().FlushAll())
	assert.Equal(t, 0, b.Registry().Len())

	for _, p := range created {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be removed", p)
	}
	rootEntries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, rootEntries)

	require.NoError(t, b.Registry().FlushAll())
}

func TestMakeDir_MaterializesAncestors(t *testing.T) {
	b, _ := newOSBuilder(t)
	root := t.TempDir()
	base := filepath.Join(root, "a", "b", "c")

	d, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: base}})
	require.NoError(t, err)
	assert.Equal(t, base, filepath.Dir(d.Path()))

	for _, p := range []string{"a", "a/b", "a/b/c"} {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	// leaf + c + b + a
	assert.Equal(t, 4, b.Registry().Len())

	require.NoError(t, b.Registry().FlushAll())
	_, err = os.Stat(filepath.Join(root, "a"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(root)
	assert.NoError(t, err, "pre-existing ancestors are never removed")
}

func TestEnsureAncestors_StopsAtExisting(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/data/existing")

	require.NoError(t, b.EnsureAncestors("/data/existing/x/y/leaf"))
	assert.Equal(t, 2, b.Registry().Len())
	assert.Contains(t, mfs.Paths(), "/data/existing/x/y")

	require.NoError(t, b.Registry().FlushAll())
	assert.Equal(t, []string{"/", "/data", "/data/existing"}, mfs.Paths())
}

func TestMakeDir_AccessCheckError(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/locked")
	mfs.FailOn(filesystem.OpStat, "/locked/target", fs.ErrPermission)

	_, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: "/locked", NamePattern: "target"}})
	require.Error(t, err)

	var ace *temporarily.AccessCheckError
	require.True(t, errors.As(err, &ace))
	assert.Equal(t, "/locked/target", ace.Path)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, 0, b.Registry().Len())
}

func TestMakeFile_AccessCheckOnAncestor(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/locked")
	mfs.FailOn(filesystem.OpStat, "/locked/sub", fs.ErrPermission)

	_, err := b.MakeFile(fileOpts("/locked/sub", "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, temporarily.ErrAccessCheck)
	// the file's own cleanup was registered before the failed check
	assert.Equal(t, 1, b.Registry().Len())
	assert.NoError(t, b.Registry().FlushAll(), "removing a file that was never written is tolerated")
}

func TestMakeFile_WriteFailureKeepsCleanup(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/work")
	mfs.FailOn(filesystem.OpWriteFile, "/work/out.txt", fs.ErrPermission)

	_, err := b.MakeFile(temporarily.FileOptions{
		PathOptions: temporarily.PathOptions{BaseDir: "/work", NamePattern: "out", Extension: "txt"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, 1, b.Registry().Len())
	assert.NoError(t, b.Registry().FlushAll())
}

func TestMakeDir_ModesAndDefaults(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/work")

	d, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: "/work"}})
	require.NoError(t, err)
	assert.Equal(t, temporarily.DefaultDirMode, d.Mode())

	p, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: "/work"}, Mode: 0o700})
	require.NoError(t, err)

	info, err := mfs.Stat(p.Path())
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm())

	f, err := b.MakeFile(temporarily.FileOptions{PathOptions: temporarily.PathOptions{BaseDir: "/work"}, Mode: 0o600})
	require.NoError(t, err)
	info, err = mfs.Stat(f.Path())
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestMakeDir_RelocationStopsAtFirstFailure(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/src")

	first, err := b.MakeFile(temporarily.FileOptions{PathOptions: temporarily.PathOptions{BaseDir: "/src", NamePattern: "one"}})
	require.NoError(t, err)
	second, err := b.MakeFile(temporarily.FileOptions{PathOptions: temporarily.PathOptions{BaseDir: "/src", NamePattern: "two"}})
	require.NoError(t, err)
	mfs.FailOn(filesystem.OpRename, "/src/two", fs.ErrPermission)

	_, err = b.MakeDir(temporarily.DirOptions{
		PathOptions: temporarily.PathOptions{BaseDir: "/dst", NamePattern: "parent"},
		Children:    []temporarily.Entry{first, second},
	})
	require.Error(t, err)

	assert.Equal(t, "/dst/parent/one", first.Path(), "earlier children stay relocated")
	assert.Equal(t, "/src/two", second.Path())
	_, err = mfs.Stat("/src/two")
	assert.NoError(t, err)
}

func TestMakeDir_InvalidPattern(t *testing.T) {
	b, _ := newMemoryBuilder(t)

	_, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{NamePattern: "{q}"}})
	assert.ErrorIs(t, err, temporarily.ErrInvalidTemplate)
	assert.Equal(t, 0, b.Registry().Len())
}

func TestMakeFile_UnsupportedEncodingRegistersNothing(t *testing.T) {
	b, _ := newMemoryBuilder(t)

	_, err := b.MakeFile(temporarily.FileOptions{Data: "x", Encoding: "ebcdic"})
	assert.ErrorIs(t, err, temporarily.ErrUnsupportedEncoding)
	assert.Equal(t, 0, b.Registry().Len())
}

func TestMakeDir_RefusesToMoveReusedDirectory(t *testing.T) {
	b, _ := newOSBuilder(t)
	home := t.TempDir()
	precious := filepath.Join(home, "project", "precious.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(precious), 0o755))
	require.NoError(t, os.WriteFile(precious, []byte("keep me"), 0o644))

	reused, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: home, NamePattern: "project"}})
	require.NoError(t, err)
	require.False(t, reused.HasCleanup())

	before := b.Registry().Len()
	_, err = b.MakeDirWith(reused)
	require.Error(t, err)
	assert.ErrorIs(t, err, temporarily.ErrInvalidConfig)
	assert.Equal(t, before, b.Registry().Len(), "nothing registered for the rejected directory")
	assert.Equal(t, filepath.Join(home, "project"), reused.Path())

	require.NoError(t, b.Registry().FlushAll())
	content, err := os.ReadFile(precious)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
}

func TestMakeDir_UnderRegularFileIsAccessCheck(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/data")
	require.NoError(t, mfs.WriteFile("/data/blocker", []byte("x"), 0o644))

	_, err := b.MakeDir(temporarily.DirOptions{PathOptions: temporarily.PathOptions{BaseDir: "/data/blocker/sub", NamePattern: "leaf"}})
	require.Error(t, err)

	var ace *temporarily.AccessCheckError
	require.True(t, errors.As(err, &ace))
	assert.Equal(t, "/data/blocker/sub/leaf", ace.Path)
	assert.ErrorIs(t, err, syscall.ENOTDIR)
}

func TestMakeFile_UnderRegularFileFlushesCleanly(t *testing.T) {
	b, mfs := newMemoryBuilder(t, "/data")
	require.NoError(t, mfs.WriteFile("/data/blocker", []byte("x"), 0o644))

	_, err := b.MakeFile(fileOpts("/data/blocker/sub", "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, temporarily.ErrAccessCheck)
	assert.ErrorIs(t, err, syscall.ENOTDIR)
	assert.NoError(t, b.Registry().FlushAll())
}
