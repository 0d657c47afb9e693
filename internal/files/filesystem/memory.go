package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Operation names accepted by MemoryFileSystem.FailOn.
const (
	OpStat      = "stat"
	OpMkdir     = "mkdir"
	OpWriteFile = "write"
	OpReadFile  = "read"
	OpReadDir   = "readdir"
	OpRename    = "rename"
	OpRemove    = "remove"
)

var errDirNotEmpty = errors.New("directory not empty")

// memoryFileInfo implements fs.FileInfo for in-memory entries
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryNode struct {
	mode    fs.FileMode
	content []byte
	modTime time.Time
}

func (n *memoryNode) info(p string) *memoryFileInfo {
	return &memoryFileInfo{
		name:    path.Base(p),
		size:    int64(len(n.content)),
		mode:    n.mode,
		modTime: n.modTime,
	}
}

type faultKey struct {
	op   string
	path string
}

// MemoryFileSystem implements FileSystem in memory. Paths use forward
// slashes; relative paths are resolved against "/". Safe for concurrent use.
type MemoryFileSystem struct {
	mu     sync.Mutex
	nodes  map[string]*memoryNode
	faults map[faultKey]error
}

// NewMemoryFileSystem creates an in-memory filesystem holding only the root
// directory and the given directories (created with their ancestors).
func NewMemoryFileSystem(dirs ...string) *MemoryFileSystem {
	mfs := &MemoryFileSystem{
		nodes:  map[string]*memoryNode{"/": {mode: fs.ModeDir | 0o755, modTime: time.Now()}},
		faults: make(map[faultKey]error),
	}
	for _, d := range dirs {
		mfs.mkdirAll(clean(d))
	}
	return mfs
}

// FailOn makes every later op on p return err. A nil err clears the fault.
func (mfs *MemoryFileSystem) FailOn(op, p string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	key := faultKey{op: op, path: clean(p)}
	if err == nil {
		delete(mfs.faults, key)
		return
	}
	mfs.faults[key] = err
}

// Paths returns every stored path, sorted.
func (mfs *MemoryFileSystem) Paths() []string {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	paths := make([]string, 0, len(mfs.nodes))
	for p := range mfs.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (mfs *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpStat, p); err != nil {
		return nil, err
	}
	node, ok := mfs.nodes[p]
	if !ok {
		return nil, &fs.PathError{Op: OpStat, Path: p, Err: mfs.missingErr(p)}
	}
	return node.info(p), nil
}

func (mfs *MemoryFileSystem) Mkdir(p string, perm fs.FileMode) error {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpMkdir, p); err != nil {
		return err
	}
	if _, ok := mfs.nodes[p]; ok {
		return &fs.PathError{Op: OpMkdir, Path: p, Err: fs.ErrExist}
	}
	if err := mfs.requireDir(OpMkdir, path.Dir(p)); err != nil {
		return err
	}
	mfs.nodes[p] = &memoryNode{mode: fs.ModeDir | perm.Perm(), modTime: time.Now()}
	return nil
}

func (mfs *MemoryFileSystem) WriteFile(p string, data []byte, perm fs.FileMode) error {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpWriteFile, p); err != nil {
		return err
	}
	if node, ok := mfs.nodes[p]; ok && node.mode.IsDir() {
		return &fs.PathError{Op: OpWriteFile, Path: p, Err: errors.New("is a directory")}
	}
	if err := mfs.requireDir(OpWriteFile, path.Dir(p)); err != nil {
		return err
	}
	content := make([]byte, len(data))
	copy(content, data)
	mfs.nodes[p] = &memoryNode{mode: perm.Perm(), content: content, modTime: time.Now()}
	return nil
}

func (mfs *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpReadFile, p); err != nil {
		return nil, err
	}
	node, ok := mfs.nodes[p]
	if !ok {
		return nil, &fs.PathError{Op: OpReadFile, Path: p, Err: fs.ErrNotExist}
	}
	if node.mode.IsDir() {
		return nil, &fs.PathError{Op: OpReadFile, Path: p, Err: errors.New("is a directory")}
	}
	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

func (mfs *MemoryFileSystem) ReadDir(p string) ([]FileInfo, error) {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpReadDir, p); err != nil {
		return nil, err
	}
	if err := mfs.requireDir(OpReadDir, p); err != nil {
		return nil, err
	}

	var result []FileInfo
	for child, node := range mfs.nodes {
		if child != p && path.Dir(child) == p {
			result = append(result, node.info(child))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (mfs *MemoryFileSystem) Rename(oldpath, newpath string) error {
	oldpath, newpath = clean(oldpath), clean(newpath)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpRename, oldpath); err != nil {
		return err
	}
	if _, ok := mfs.nodes[oldpath]; !ok {
		return &os.LinkError{Op: OpRename, Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	if err := mfs.requireDir(OpRename, path.Dir(newpath)); err != nil {
		return err
	}
	if oldpath == newpath {
		return nil
	}
	if strings.HasPrefix(newpath, oldpath+"/") {
		return &os.LinkError{Op: OpRename, Old: oldpath, New: newpath, Err: fs.ErrInvalid}
	}

	for _, p := range mfs.subtree(oldpath) {
		mfs.nodes[newpath+strings.TrimPrefix(p, oldpath)] = mfs.nodes[p]
		delete(mfs.nodes, p)
	}
	return nil
}

func (mfs *MemoryFileSystem) Remove(p string) error {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpRemove, p); err != nil {
		return err
	}
	if _, ok := mfs.nodes[p]; !ok {
		return &fs.PathError{Op: OpRemove, Path: p, Err: mfs.missingErr(p)}
	}
	if len(mfs.subtree(p)) > 1 {
		return &fs.PathError{Op: OpRemove, Path: p, Err: errDirNotEmpty}
	}
	delete(mfs.nodes, p)
	return nil
}

func (mfs *MemoryFileSystem) RemoveAll(p string) error {
	p = clean(p)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if err := mfs.fault(OpRemove, p); err != nil {
		return err
	}
	for _, sub := range mfs.subtree(p) {
		delete(mfs.nodes, sub)
	}
	return nil
}

// subtree returns p and every path below it. Callers hold mu.
func (mfs *MemoryFileSystem) subtree(p string) []string {
	var paths []string
	for candidate := range mfs.nodes {
		if candidate == p || strings.HasPrefix(candidate, p+"/") || (p == "/" && candidate != p) {
			paths = append(paths, candidate)
		}
	}
	return paths
}

func (mfs *MemoryFileSystem) requireDir(op, p string) error {
	node, ok := mfs.nodes[p]
	if !ok {
		return &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
	}
	if !node.mode.IsDir() {
		return &fs.PathError{Op: op, Path: p, Err: syscall.ENOTDIR}
	}
	return nil
}

// missingErr explains why p is absent: ENOTDIR when an ancestor is a regular
// file, as the OS reports it, otherwise ErrNotExist. Callers hold mu.
func (mfs *MemoryFileSystem) missingErr(p string) error {
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		if node, ok := mfs.nodes[dir]; ok {
			if !node.mode.IsDir() {
				return syscall.ENOTDIR
			}
			return fs.ErrNotExist
		}
		if dir == "/" {
			return fs.ErrNotExist
		}
	}
}

func (mfs *MemoryFileSystem) mkdirAll(p string) {
	if _, ok := mfs.nodes[p]; ok {
		return
	}
	mfs.mkdirAll(path.Dir(p))
	mfs.nodes[p] = &memoryNode{mode: fs.ModeDir | 0o755, modTime: time.Now()}
}

func (mfs *MemoryFileSystem) fault(op, p string) error {
	if err, ok := mfs.faults[faultKey{op: op, path: p}]; ok {
		return &fs.PathError{Op: op, Path: p, Err: err}
	}
	return nil
}

// clean normalizes p to forward slashes (virtual filesystem convention) and
// anchors it at "/".
func clean(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

var _ FileSystem = (*MemoryFileSystem)(nil)
