package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// node is one position in the cache tree. It is either a leaf holding a value
// or an interior node holding children, never both. Keeping the variant
// explicit means set/get/clear decide by structure rather than by inspecting
// the dynamic type of stored values.
type node struct {
	value    any
	children map[string]*node
	leaf     bool
}

func newInterior() *node {
	return &node{children: make(map[string]*node)}
}

func newLeaf(value any) *node {
	return &node{value: value, leaf: true}
}

// nodeImage is the persisted form of a node. Exactly one of the two keys is
// present so that a leaf whose value is itself a mapping cannot be mistaken
// for an interior node on reload.
type nodeImage struct {
	Leaf json.RawMessage  `json:"leaf,omitempty"`
	Tree map[string]*node `json:"tree,omitempty"`
}

func (n *node) MarshalJSON() ([]byte, error) {
	if n.leaf {
		raw, err := json.Marshal(n.value)
		if err != nil {
			return nil, fmt.Errorf("marshal leaf value: %w", err)
		}
		return json.Marshal(map[string]json.RawMessage{"leaf": raw})
	}
	tree := n.children
	if tree == nil {
		tree = map[string]*node{}
	}
	return json.Marshal(map[string]map[string]*node{"tree": tree})
}

func (n *node) UnmarshalJSON(data []byte) error {
	var img nodeImage
	if err := json.Unmarshal(data, &img); err != nil {
		return err
	}
	if img.Tree != nil {
		n.leaf = false
		n.value = nil
		n.children = img.Tree
		return nil
	}
	if img.Leaf == nil {
		return errors.New("node image has neither leaf nor tree")
	}
	var value any
	if err := json.Unmarshal(img.Leaf, &value); err != nil {
		return fmt.Errorf("unmarshal leaf value: %w", err)
	}
	n.leaf = true
	n.value = value
	n.children = nil
	return nil
}

// walkLeaves visits every leaf under n in depth-first order, passing the
// slash-joined path relative to n.
func (n *node) walkLeaves(prefix string, fn func(path string, value any)) {
	if n.leaf {
		fn(prefix, n.value)
		return
	}
	for name, child := range n.children {
		p := name
		if prefix != "" {
			p = prefix + "/" + name
		}
		child.walkLeaves(p, fn)
	}
}
