package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Snapshot files hold one or more named cache trees serialized as JSON and
// wrapped in zstd. The whole file is rewritten on every save via a temp file
// rename, so a crash mid-save leaves the previous snapshot intact.

var (
	snapshotEncoder *zstd.Encoder
	snapshotDecoder *zstd.Decoder
)

func init() {
	var err error
	snapshotEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("storage: init zstd encoder: %v", err))
	}
	snapshotDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("storage: init zstd decoder: %v", err))
	}
}

// SaveSnapshot serializes the given named cache trees to path, replacing any
// previous snapshot wholesale.
func SaveSnapshot(path string, sections map[string]*PathCache) error {
	image := make(map[string]*node, len(sections))
	for name, cache := range sections {
		image[name] = cache.root
	}
	raw, err := json.Marshal(image)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := snapshotEncoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure snapshot directory: %w", err)
	}
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. A missing file is
// reported via os.IsNotExist on the returned error; any other failure means
// the snapshot is unreadable.
func LoadSnapshot(path string) (map[string]*PathCache, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := snapshotDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var image map[string]*node
	if err := json.Unmarshal(raw, &image); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	sections := make(map[string]*PathCache, len(image))
	for name, root := range image {
		if root == nil || root.leaf {
			return nil, fmt.Errorf("snapshot section %q is not a tree", name)
		}
		sections[name] = &PathCache{root: root}
	}
	return sections, nil
}
