// Package sink provides destinations for generated files.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sink receives generated files. Implementations must be safe for
// concurrent calls.
type Sink interface {
	// WriteFile stores content at path, which is relative to the sink.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// Dir writes files below a directory, atomically per file.
type Dir struct {
	Root string

	// Mode defaults to 0644.
	Mode os.FileMode
}

// NewDir returns a Dir sink rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root, Mode: 0o644}
}

func (d *Dir) resolve(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	full := filepath.Join(d.Root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(d.Root)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	if !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes output directory: %q", path)
	}
	return full, nil
}

// WriteFile writes content through a temporary file and a rename, so readers
// never observe a partially written file.
func (d *Dir) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".hookgen-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}

	mode := d.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, full); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Memory keeps files in memory.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = bytes.Clone(content)
	return nil
}

// Get returns a copy of the file at path, or nil.
func (m *Memory) Get(path string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return bytes.Clone(m.files[path])
}

// Paths returns the stored paths in sorted order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Check compares files against a directory without writing. It records
// every file whose content differs from what is on disk.
type Check struct {
	dir *Dir

	mu    sync.Mutex
	stale []string
}

// NewCheck returns a Check against root.
func NewCheck(root string) *Check {
	return &Check{dir: NewDir(root)}
}

func (c *Check) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := c.dir.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	current, err := os.ReadFile(full)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	case bytes.Equal(current, content):
		return nil
	}
	c.mu.Lock()
	c.stale = append(c.stale, path)
	c.mu.Unlock()
	return nil
}

// Stale returns the paths that are missing or out of date, sorted.
func (c *Check) Stale() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.stale...)
	sort.Strings(out)
	return out
}

// ValidatePath checks that path is relative, clean, slash-separated and
// stays inside the sink.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case filepath.IsAbs(path) || strings.HasPrefix(path, "/"):
		return errors.New("absolute paths not allowed")
	case len(path) >= 2 && path[1] == ':':
		return errors.New("absolute paths not allowed")
	case strings.Contains(path, `\`):
		return errors.New("use / as the separator")
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return fmt.Errorf("path is not clean (expected %q)", cleaned)
	}
	return nil
}
