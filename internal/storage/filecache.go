package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// BlobMeta records where a cached blob lives on disk and how large it is.
// The cache tree is authoritative for which blobs exist; the filesystem is
// authoritative for their content.
type BlobMeta struct {
	Filepath string
	Size     int
}

// FileCache stores binary payloads as files under a root directory, keeping
// only path metadata in the tree. Entries whose backing file has gone missing
// or been truncated behind the cache's back are treated as misses and purged.
type FileCache struct {
	*PathCache
	root string
}

// NewFileCache creates a file cache rooted at rootDir, creating the directory
// if needed. existing, if non-nil, supplies previously persisted metadata
// (typically loaded with LoadSnapshot).
func NewFileCache(rootDir string, existing *PathCache) (*FileCache, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, &ConfigurationError{Dir: rootDir, Reason: err.Error()}
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, &ConfigurationError{Dir: rootDir, Reason: err.Error()}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Dir: rootDir, Reason: "exists and is not a directory"}
	}

	cache := existing
	if cache == nil {
		cache = NewPathCache()
	}
	return &FileCache{PathCache: cache, root: rootDir}, nil
}

// Set writes data to the file derived from root+path and records its
// location and size in the tree. If the directory creation or write fails,
// the just-added metadata entry is rolled back so the tree never references
// a file that was not fully written.
func (c *FileCache) Set(path string, data []byte) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return &InvalidPathError{Path: path, Reason: "empty or root path cannot hold a value"}
	}

	full, err := filepath.Abs(filepath.Join(c.root, filepath.Join(segs...)))
	if err != nil {
		return fmt.Errorf("resolve blob path: %w", err)
	}

	if err := c.PathCache.Set(path, map[string]any{"filepath": full, "size": len(data)}); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		c.PathCache.Clear(path)
		return fmt.Errorf("create blob directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		c.PathCache.Clear(path)
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// Get reads the blob stored at path. A missing or truncated backing file is
// reported as a miss and the stale metadata entry is removed so a later Set
// can repopulate it.
func (c *FileCache) Get(path string) ([]byte, BlobMeta, bool, error) {
	raw, ok, err := c.PathCache.Get(path, nil)
	if err != nil || !ok {
		return nil, BlobMeta{}, false, err
	}

	meta, ok := decodeBlobMeta(raw)
	if !ok {
		// Entry is not blob metadata; treat as tampered and self-repair.
		c.PathCache.Clear(path)
		return nil, BlobMeta{}, false, nil
	}

	data, err := os.ReadFile(meta.Filepath)
	if err != nil || len(data) < meta.Size {
		c.PathCache.Clear(path)
		return nil, BlobMeta{}, false, nil
	}
	return data[:meta.Size], meta, true, nil
}

// Clear deletes every backing file under path, then drops the metadata
// subtree. File removal failures are ignored: an orphan file is acceptable
// garbage, while metadata pointing at a deleted file is not.
func (c *FileCache) Clear(path string) {
	if n := c.PathCache.lookup(path); n != nil {
		n.walkLeaves("", func(_ string, value any) {
			if meta, ok := decodeBlobMeta(value); ok {
				_ = os.Remove(meta.Filepath)
			}
		})
	}
	c.PathCache.Clear(path)
}

// Reset deletes every tracked file and empties the cache.
func (c *FileCache) Reset() {
	c.Clear("/")
}

// decodeBlobMeta converts a stored metadata leaf back into a BlobMeta. After
// a snapshot reload sizes arrive as float64, so both numeric forms are
// accepted.
func decodeBlobMeta(raw any) (BlobMeta, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return BlobMeta{}, false
	}
	fp, ok := m["filepath"].(string)
	if !ok {
		return BlobMeta{}, false
	}
	switch size := m["size"].(type) {
	case int:
		return BlobMeta{Filepath: fp, Size: size}, true
	case float64:
		return BlobMeta{Filepath: fp, Size: int(size)}, true
	default:
		return BlobMeta{}, false
	}
}
