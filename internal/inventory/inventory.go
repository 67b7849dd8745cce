// Package inventory tracks owned card collections. Each inventory lives in
// the object store under /inventories/{id} and mirrors itself to a JSON
// sidecar file in its output directory, so the collection survives even if
// the store is lost.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"qmtg/internal/card"
)

// NormalizeID lowers an inventory name to a store-safe identifier. Anything
// outside lowercase letters, digits, and underscores becomes an underscore.
func NormalizeID(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Inventory is a named collection of owned cards, keyed by physical
// variant. Path is the directory its sidecar file lives in.
type Inventory struct {
	ID    string
	Name  string
	Path  string
	Cards map[string]card.OwnedCard
}

// New creates an empty inventory. The ID is normalized.
func New(id, name, path string) *Inventory {
	return &Inventory{
		ID:    NormalizeID(id),
		Name:  name,
		Path:  path,
		Cards: make(map[string]card.OwnedCard),
	}
}

// SetID replaces the inventory's identifier, normalizing it first.
func (inv *Inventory) SetID(id string) {
	inv.ID = NormalizeID(id)
}

// AddCard merges a card into the inventory. Copies of an already-held
// variant add to its count; a new variant gets its own entry.
func (inv *Inventory) AddCard(c card.OwnedCard) {
	if inv.Cards == nil {
		inv.Cards = make(map[string]card.OwnedCard)
	}
	key := c.VariantKey()
	if held, ok := inv.Cards[key]; ok {
		held.Count += c.Count
		inv.Cards[key] = held
		return
	}
	inv.Cards[key] = c
}

// Count returns the total number of physical cards held.
func (inv *Inventory) Count() int {
	total := 0
	for _, c := range inv.Cards {
		total += c.Count
	}
	return total
}

// SortedCards returns the held cards in display order.
func (inv *Inventory) SortedCards() []card.OwnedCard {
	cards := make([]card.OwnedCard, 0, len(inv.Cards))
	for _, c := range inv.Cards {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Less(cards[j]) })
	return cards
}

// ToMap renders the inventory for storage.
func (inv *Inventory) ToMap() map[string]any {
	cards := make([]any, 0, len(inv.Cards))
	for _, c := range inv.SortedCards() {
		cards = append(cards, c.ToMap())
	}
	return map[string]any{
		"id":    inv.ID,
		"name":  inv.Name,
		"path":  inv.Path,
		"cards": cards,
	}
}

// FromMap rebuilds an inventory from its storage form.
func FromMap(m map[string]any) *Inventory {
	inv := New(str(m, "id"), str(m, "name"), str(m, "path"))
	rawCards, _ := m["cards"].([]any)
	for _, rc := range rawCards {
		cm, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		inv.AddCard(card.OwnedFromMap(cm))
	}
	return inv
}

// SidecarFile is the name of the JSON mirror written to the inventory's
// directory.
const SidecarFile = "inventory.json"

// WriteFile writes the inventory's JSON sidecar into its directory,
// replacing any existing one.
func (inv *Inventory) WriteFile() error {
	data, err := json.MarshalIndent(inv.ToMap(), "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(inv.Path, SidecarFile), data, 0o644)
}

// ReadFile loads an inventory from the sidecar file in the given
// directory.
func ReadFile(dir string) (*Inventory, error) {
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

// Metadata indexes the inventories known to the store, under
// /inventories/.meta.
type Metadata struct {
	IDs map[string]bool
}

// NewMetadata creates an empty index.
func NewMetadata() *Metadata {
	return &Metadata{IDs: make(map[string]bool)}
}

// Has reports whether the index lists the given inventory.
func (md *Metadata) Has(id string) bool {
	return md.IDs[id]
}

// Add lists an inventory in the index.
func (md *Metadata) Add(id string) {
	if md.IDs == nil {
		md.IDs = make(map[string]bool)
	}
	md.IDs[id] = true
}

// Remove drops an inventory from the index.
func (md *Metadata) Remove(id string) {
	delete(md.IDs, id)
}

// SortedIDs returns the listed inventory IDs in order.
func (md *Metadata) SortedIDs() []string {
	ids := make([]string, 0, len(md.IDs))
	for id := range md.IDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ToMap renders the index for storage.
func (md *Metadata) ToMap() map[string]any {
	ids := make([]any, 0, len(md.IDs))
	for _, id := range md.SortedIDs() {
		ids = append(ids, id)
	}
	return map[string]any{"ids": ids}
}

// MetadataFromMap rebuilds the index from its storage form.
func MetadataFromMap(m map[string]any) *Metadata {
	md := NewMetadata()
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
