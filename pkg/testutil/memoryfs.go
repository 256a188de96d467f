package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. Unlike the
// usual memory-backed test filesystems it models symlinks as their own
// node kind, which the merge engine depends on.
type MemoryFS struct {
	mu    sync.RWMutex
	nodes map[string]*fileNode

	// Error injection: any operation touching one of these paths
	// fails with the stored error. opErrors scopes the failure to a
	// single operation name.
	errorPaths map[string]error
	opErrors   map[string]error
}

// fileNode represents a file, directory, or symlink in memory
type fileNode struct {
	mode     fs.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
}

// NewMemoryFS creates a new in-memory filesystem with an empty root
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*fileNode{
			"/": {mode: 0755 | fs.ModeDir, modTime: time.Now(), isDir: true},
		},
		errorPaths: make(map[string]error),
		opErrors:   make(map[string]error),
	}
}

// FailWith makes every operation touching path return err
func (m *MemoryFS) FailWith(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[m.clean(path)] = err
}

// FailOp makes only the named operation fail for path. Operation names
// match the Op field of the returned fs.PathError: "lstat", "symlink",
// "removeall", and so on.
func (m *MemoryFS) FailOp(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opErrors[op+":"+m.clean(path)] = err
}

// Exists reports whether path exists, without following symlinks
func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[m.clean(path)]
	return ok
}

// Paths returns every path in the filesystem, sorted, excluding the root
func (m *MemoryFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for p := range m.nodes {
		if p != "/" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MemoryFS) clean(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

func (m *MemoryFS) check(path string, op string) error {
	if err, ok := m.opErrors[op+":"+path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	if err, ok := m.errorPaths[path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func notExist(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
}

// resolve follows symlink chains to the final node
func (m *MemoryFS) resolve(path string) (string, *fileNode, error) {
	for depth := 0; depth < 40; depth++ {
		node, ok := m.nodes[path]
		if !ok {
			return "", nil, notExist("stat", path)
		}
		if !node.isLink {
			return path, node, nil
		}
		path = m.clean(node.linkDest)
	}
	return "", nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrInvalid}
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path := m.clean(name)
	if err := m.check(path, "stat"); err != nil {
		return nil, err
	}
	resolved, node, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	return newInfo(filepath.Base(resolved), node), nil
}

func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path := m.clean(name)
	if err := m.check(path, "lstat"); err != nil {
		return nil, err
	}
	node, ok := m.nodes[path]
	if !ok {
		return nil, notExist("lstat", path)
	}
	return newInfo(filepath.Base(path), node), nil
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path := m.clean(name)
	if err := m.check(path, "read"); err != nil {
		return nil, err
	}
	_, node, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := m.clean(name)
	if err := m.check(path, "write"); err != nil {
		return err
	}
	parent, ok := m.nodes[filepath.Dir(path)]
	if !ok || !parent.isDir {
		return notExist("write", path)
	}
	if existing, ok := m.nodes[path]; ok && existing.isDir {
		return &fs.PathError{Op: "write", Path: path, Err: fs.ErrInvalid}
	}
	content := make([]byte, len(data))
	copy(content, data)
	m.nodes[path] = &fileNode{mode: perm, modTime: time.Now(), content: content}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path := m.clean(name)
	if err := m.check(path, "readdir"); err != nil {
		return nil, err
	}
	resolved, node, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrInvalid}
	}
	var entries []fs.DirEntry
	for p, n := range m.nodes {
		if p != resolved && filepath.Dir(p) == resolved {
			entries = append(entries, dirEntry{info: newInfo(filepath.Base(p), n)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = m.clean(path)
	if err := m.check(path, "mkdir"); err != nil {
		return err
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	current := "/"
	for _, part := range parts {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		if node, ok := m.nodes[current]; ok {
			if !node.isDir && !node.isLink {
				return &fs.PathError{Op: "mkdir", Path: current, Err: fs.ErrExist}
			}
			continue
		}
		m.nodes[current] = &fileNode{mode: perm | fs.ModeDir, modTime: time.Now(), isDir: true}
	}
	return nil
}

func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := m.clean(newname)
	if err := m.check(path, "symlink"); err != nil {
		return err
	}
	if _, ok := m.nodes[path]; ok {
		return &fs.PathError{Op: "symlink", Path: path, Err: fs.ErrExist}
	}
	parent, ok := m.nodes[filepath.Dir(path)]
	if !ok || !parent.isDir {
		return notExist("symlink", path)
	}
	m.nodes[path] = &fileNode{
		mode:     0777 | fs.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: oldname,
	}
	return nil
}

func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path := m.clean(name)
	if err := m.check(path, "readlink"); err != nil {
		return "", err
	}
	node, ok := m.nodes[path]
	if !ok {
		return "", notExist("readlink", path)
	}
	if !node.isLink {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrInvalid}
	}
	return node.linkDest, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := m.clean(name)
	if err := m.check(path, "remove"); err != nil {
		return err
	}
	node, ok := m.nodes[path]
	if !ok {
		return notExist("remove", path)
	}
	if node.isDir {
		for p := range m.nodes {
			if filepath.Dir(p) == path {
				return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrInvalid}
			}
		}
	}
	delete(m.nodes, path)
	return nil
}

func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = m.clean(path)
	if err := m.check(path, "removeall"); err != nil {
		return err
	}
	prefix := path + "/"
	for p := range m.nodes {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.nodes, p)
		}
	}
	return nil
}

// fileInfo implements fs.FileInfo
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func newInfo(name string, node *fileNode) fileInfo {
	return fileInfo{
		name:    name,
		size:    int64(len(node.content)),
		mode:    node.mode,
		modTime: node.modTime,
		isDir:   node.isDir,
	}
}

func (f fileInfo) Name() string       { return f.name }
func (f fileInfo) Size() int64        { return f.size }
func (f fileInfo) Mode() fs.FileMode  { return f.mode }
func (f fileInfo) ModTime() time.Time { return f.modTime }
func (f fileInfo) IsDir() bool        { return f.isDir }
func (f fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry
type dirEntry struct {
	info fileInfo
}

func (d dirEntry) Name() string               { return d.info.name }
func (d dirEntry) IsDir() bool                { return d.info.isDir }
func (d dirEntry) Type() fs.FileMode          { return d.info.mode.Type() }
func (d dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }
