package actions

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"qmtg/internal/binder"
	"qmtg/internal/inventory"
	"qmtg/internal/scryfall"
	"qmtg/internal/storage"
)

const (
	inventoriesPath = "/inventories"
	bindersPath     = "/binders"
	invMetaPath     = inventoriesPath + "/.meta"
	binderMetaPath  = bindersPath + "/.meta"
)

// Env carries the shared state every action needs.
type Env struct {
	Store  *storage.ObjectStore
	API    *scryfall.Agent
	Logger *slog.Logger
}

// RegisterTypes installs the domain types the store must know how to
// envelope. Call once after opening the store.
func RegisterTypes(store *storage.ObjectStore) {
	storage.Register(store, "inventory",
		func(inv *inventory.Inventory) map[string]any { return inv.ToMap() },
		inventory.FromMap)
	storage.Register(store, "inventory_metadata",
		func(md *inventory.Metadata) map[string]any { return md.ToMap() },
		inventory.MetadataFromMap)
	storage.Register(store, "binder",
		func(b *binder.Binder) map[string]any { return b.ToMap() },
		binder.FromMap)
	storage.Register(store, "binder_metadata",
		func(md *binder.Metadata) map[string]any { return md.ToMap() },
		binder.MetadataFromMap)
}

func (e *Env) log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return e.Logger
}

func (e *Env) inventoryMeta() (*inventory.Metadata, error) {
	raw, _, err := e.Store.Get(invMetaPath, nil, inventory.NewMetadata())
	if err != nil {
		return nil, err
	}
	md, ok := raw.(*inventory.Metadata)
	if !ok {
		return nil, fmt.Errorf("inventory metadata record has unexpected form")
	}
	return md, nil
}

// inventoryFromStore loads an inventory, verifying it against the
// metadata index. A listed inventory whose record is missing is dropped
// from the index so the store heals itself.
func (e *Env) inventoryFromStore(id string) (*inventory.Inventory, *inventory.Metadata, error) {
	md, err := e.inventoryMeta()
	if err != nil {
		return nil, nil, err
	}
	if !md.Has(id) {
		return nil, md, fmt.Errorf("%q is not an inventory that is currently defined", id)
	}
	raw, ok, err := e.Store.Get(inventoriesPath+"/"+id, nil, nil)
	if err != nil {
		return nil, md, err
	}
	inv, isInv := raw.(*inventory.Inventory)
	if !ok || !isInv {
		md.Remove(id)
		if serr := e.Store.Set(invMetaPath, md); serr != nil {
			return nil, md, serr
		}
		e.log().Error("inventory listed in metadata but record could not load; entry removed to repair the index", "id", id)
		return nil, md, fmt.Errorf("%q was listed in metadata but its record could not load; the entry has been removed", id)
	}
	return inv, md, nil
}

func (e *Env) binderMeta() (*binder.Metadata, error) {
	raw, _, err := e.Store.Get(binderMetaPath, nil, &binder.Metadata{})
	if err != nil {
		return nil, err
	}
	md, ok := raw.(*binder.Metadata)
	if !ok {
		return nil, fmt.Errorf("binder metadata record has unexpected form")
	}
	return md, nil
}

// binderFromStore loads a binder, verifying it against the metadata index
// and repairing the index when the record is gone.
func (e *Env) binderFromStore(id string) (*binder.Binder, *binder.Metadata, error) {
	md, err := e.binderMeta()
	if err != nil {
		return nil, nil, err
	}
	if !md.Has(id) {
		return nil, md, fmt.Errorf("%q is not a binder that is currently defined", id)
	}
	raw, ok, err := e.Store.Get(bindersPath+"/"+id, nil, nil)
	if err != nil {
		return nil, md, err
	}
	b, isBinder := raw.(*binder.Binder)
	if !ok || !isBinder {
		md.Remove(id)
		if serr := e.Store.Set(binderMetaPath, md); serr != nil {
			return nil, md, serr
		}
		e.log().Error("binder listed in metadata but record could not load; entry removed to repair the index", "id", id)
		return nil, md, fmt.Errorf("%q was listed in metadata but its record could not load; the entry has been removed", id)
	}
	return b, md, nil
}
