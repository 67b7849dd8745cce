// Package binder builds browsable HTML views of card collections. A binder
// is an ordered run of cards rendered as pages of image slots, the way the
// cards would sit in a physical nine-pocket binder.
package binder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"qmtg/internal/card"
	"qmtg/internal/inventory"
)

// Binder is a named, ordered collection of cards with a generated view
// directory at Path.
type Binder struct {
	ID    string
	Name  string
	Path  string
	Cards []card.OwnedCard
}

// New creates an empty binder. The ID is normalized the same way inventory
// IDs are.
func New(id, name, path string) *Binder {
	return &Binder{ID: inventory.NormalizeID(id), Name: name, Path: path}
}

// SetID replaces the binder's identifier, normalizing it first.
func (b *Binder) SetID(id string) {
	b.ID = inventory.NormalizeID(id)
}

// ToMap renders the binder for storage.
func (b *Binder) ToMap() map[string]any {
	cards := make([]any, len(b.Cards))
	for i, c := range b.Cards {
		cards[i] = c.ToMap()
	}
	return map[string]any{
		"id":    b.ID,
		"name":  b.Name,
		"path":  b.Path,
		"cards": cards,
	}
}

// FromMap rebuilds a binder from its storage form. Card order is
// preserved.
func FromMap(m map[string]any) *Binder {
	b := New(str(m, "id"), str(m, "name"), str(m, "path"))
	rawCards, _ := m["cards"].([]any)
	for _, rc := range rawCards {
		if cm, ok := rc.(map[string]any); ok {
			b.Cards = append(b.Cards, card.OwnedFromMap(cm))
		}
	}
	return b
}

// SidecarFile is the name of the JSON mirror written to the binder's view
// directory.
const SidecarFile = "binder.json"

// WriteFile writes the binder's JSON sidecar into its directory.
func (b *Binder) WriteFile() error {
	data, err := json.MarshalIndent(b.ToMap(), "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.Path, SidecarFile), data, 0o644)
}

// ReadFile loads a binder from the sidecar file in the given directory.
func ReadFile(dir string) (*Binder, error) {
	data, err := os.ReadFile(filepath.Join(dir, SidecarFile))
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", SidecarFile, err)
	}
	return FromMap(m), nil
}

// Metadata indexes the binders known to the store, under /binders/.meta.
// Unlike the inventory index it preserves creation order.
type Metadata struct {
	IDs []string
}

// Has reports whether the index lists the given binder.
func (md *Metadata) Has(id string) bool {
	for _, have := range md.IDs {
		if have == id {
			return true
		}
	}
	return false
}

// Add lists a binder in the index if not already present.
func (md *Metadata) Add(id string) {
	if !md.Has(id) {
		md.IDs = append(md.IDs, id)
	}
}

// Remove drops a binder from the index.
func (md *Metadata) Remove(id string) {
	for i, have := range md.IDs {
		if have == id {
			md.IDs = append(md.IDs[:i], md.IDs[i+1:]...)
			return
		}
	}
}

// ToMap renders the index for storage.
func (md *Metadata) ToMap() map[string]any {
	ids := make([]any, len(md.IDs))
	for i, id := range md.IDs {
		ids[i] = id
	}
	return map[string]any{"ids": ids}
}

// MetadataFromMap rebuilds the index from its storage form.
func MetadataFromMap(m map[string]any) *Metadata {
	md := &Metadata{}
	rawIDs, _ := m["ids"].([]any)
	for _, ri := range rawIDs {
		if id, ok := ri.(string); ok {
			md.Add(id)
		}
	}
	return md
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
