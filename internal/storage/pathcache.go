package storage

import "strings"

// Convert transforms a cached value on retrieval. It is only invoked on a
// cache hit.
type Convert func(any) any

// PathCache is an in-memory mapping from slash-delimited paths to arbitrary
// values. Interior segments are created implicitly on Set, and a whole
// subtree can be dropped with a single Clear on its prefix.
//
// PathCache is not safe for concurrent use; each instance is exclusively
// owned by the component that created it.
type PathCache struct {
	root *node
}

// NewPathCache returns an empty cache.
func NewPathCache() *PathCache {
	return &PathCache{root: newInterior()}
}

// splitPath normalizes a path by stripping leading/trailing slashes and
// splitting it into segments. An empty result means the root.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Set stores value at the given path, creating any missing interior segments.
// Any prior value or subtree at that exact path is replaced. Setting the
// empty or root path is invalid, as is descending through an existing leaf.
func (c *PathCache) Set(path string, value any) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return &InvalidPathError{Path: path, Reason: "empty or root path cannot hold a value"}
	}

	cur := c.root
	for i, seg := range segs[:len(segs)-1] {
		child, ok := cur.children[seg]
		if !ok {
			child = newInterior()
			cur.children[seg] = child
		}
		if child.leaf {
			return &InvalidPathError{
				Path:   "/" + strings.Join(segs[:i+1], "/"),
				Reason: "segment holds a value, not a subtree",
			}
		}
		cur = child
	}
	cur.children[segs[len(segs)-1]] = newLeaf(value)
	return nil
}

// Get returns the value stored at path. A path that was never set (or whose
// ancestors are absent) reports found=false without error; a structurally
// invalid path reports an InvalidPathError. conv, if non-nil, is applied to
// the value on a hit.
func (c *PathCache) Get(path string, conv Convert) (any, bool, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false, &InvalidPathError{Path: path, Reason: "empty or root path cannot hold a value"}
	}

	cur := c.root
	for i, seg := range segs[:len(segs)-1] {
		child, ok := cur.children[seg]
		if !ok {
			return nil, false, nil
		}
		if child.leaf {
			return nil, false, &InvalidPathError{
				Path:   "/" + strings.Join(segs[:i+1], "/"),
				Reason: "segment holds a value, not a subtree",
			}
		}
		cur = child
	}

	child, ok := cur.children[segs[len(segs)-1]]
	if !ok || !child.leaf {
		return nil, false, nil
	}
	value := child.value
	if conv != nil {
		value = conv(value)
	}
	return value, true, nil
}

// Clear removes the subtree rooted at path. Clearing the empty or root path
// removes everything. Clearing a path that does not exist is a no-op.
func (c *PathCache) Clear(path string) {
	segs := splitPath(path)
	if len(segs) == 0 {
		c.root = newInterior()
		return
	}

	cur := c.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := cur.children[seg]
		if !ok || child.leaf {
			return
		}
		cur = child
	}
	delete(cur.children, segs[len(segs)-1])
}

// Reset removes every entry.
func (c *PathCache) Reset() {
	c.Clear("/")
}

// lookup returns the node at path, or nil if absent or unreachable. Used by
// FileCache to recurse over blob metadata before clearing.
func (c *PathCache) lookup(path string) *node {
	segs := splitPath(path)
	cur := c.root
	for _, seg := range segs {
		if cur.leaf {
			return nil
		}
		child, ok := cur.children[seg]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}
