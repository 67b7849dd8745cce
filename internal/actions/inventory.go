package actions

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"qmtg/internal/card"
	"qmtg/internal/inventory"
	"qmtg/internal/progress"
	"qmtg/internal/tappedout"
)

// InventorySummary is one row of an inventory listing.
type InventorySummary struct {
	ID       string
	Name     string
	Path     string
	Variants int
	Cards    int
}

// CreateInventory creates an empty inventory rooted at outputDir and
// records it in the store. With no name or ID given, a unique default is
// picked.
func (e *Env) CreateInventory(name, id, outputDir string) (*inventory.Inventory, error) {
	md, err := e.inventoryMeta()
	if err != nil {
		return nil, err
	}

	idName := name
	if id != "" {
		idName = id
	}
	if name == "" && idName == "" {
		name = "default"
		idName = name
		for n := 1; md.Has(inventory.NormalizeID(idName)); n++ {
			idName = name + "_" + strconv.Itoa(n)
		}
	}
	if name == "" {
		name = idName
	}

	inv := inventory.New(idName, name, outputDir)
	if inv.ID == "" {
		return nil, fmt.Errorf("inventory ID normalizes to an empty string")
	}
	if md.Has(inv.ID) {
		return nil, fmt.Errorf("inventory %q already exists", inv.ID)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	if err := inv.WriteFile(); err != nil {
		return nil, err
	}

	e.Store.Batch()
	if err := e.Store.Set(inventoriesPath+"/"+inv.ID, inv); err != nil {
		return nil, err
	}
	md.Add(inv.ID)
	if err := e.Store.Set(invMetaPath, md); err != nil {
		return nil, err
	}
	e.Store.Commit()

	e.log().Info("inventory created", "id", inv.ID, "path", outputDir)
	return inv, nil
}

// ListInventories returns a summary row for every known inventory.
// Inventories whose records have gone missing are dropped from the index
// as they are encountered.
func (e *Env) ListInventories() ([]InventorySummary, error) {
	md, err := e.inventoryMeta()
	if err != nil {
		return nil, err
	}
	var rows []InventorySummary
	for _, id := range md.SortedIDs() {
		inv, _, err := e.inventoryFromStore(id)
		if err != nil {
			continue
		}
		rows = append(rows, InventorySummary{
			ID:       inv.ID,
			Name:     inv.Name,
			Path:     inv.Path,
			Variants: len(inv.Cards),
			Cards:    inv.Count(),
		})
	}
	return rows, nil
}

// ShowInventory returns the full record of one inventory.
func (e *Env) ShowInventory(id string) (*inventory.Inventory, error) {
	inv, _, err := e.inventoryFromStore(id)
	return inv, err
}

// EditInventory renames or relocates an inventory. Empty arguments leave
// the corresponding field alone.
func (e *Env) EditInventory(id, newID, newName, newPath string) (*inventory.Inventory, error) {
	inv, md, err := e.inventoryFromStore(id)
	if err != nil {
		return nil, err
	}

	oldID := inv.ID
	updated := false
	if newPath != "" {
		inv.Path = newPath
		updated = true
	}
	if newID != "" {
		inv.SetID(newID)
		if inv.ID == "" {
			return nil, fmt.Errorf("new inventory ID normalizes to an empty string")
		}
		updated = true
	}
	if newName != "" {
		inv.Name = newName
		updated = true
	}
	if !updated {
		return inv, nil
	}

	e.Store.Batch()
	if err := e.Store.Set(inventoriesPath+"/"+inv.ID, inv); err != nil {
		return nil, err
	}
	if inv.ID != oldID {
		e.Store.Clear(inventoriesPath + "/" + oldID)
		md.Remove(oldID)
		md.Add(inv.ID)
		if err := e.Store.Set(invMetaPath, md); err != nil {
			return nil, err
		}
	}
	e.Store.Commit()

	if err := inv.WriteFile(); err != nil {
		e.log().Warn("store records updated but the inventory directory could not be rewritten", "id", inv.ID, "error", err)
	}
	return inv, nil
}

// DeleteInventory removes an inventory from the store. With deleteBuilt
// set, its directory on disk is removed too.
func (e *Env) DeleteInventory(id string, deleteBuilt bool) error {
	inv, md, err := e.inventoryFromStore(id)
	if err != nil {
		return err
	}

	if deleteBuilt {
		if err := os.RemoveAll(inv.Path); err != nil {
			e.log().Warn("could not delete inventory directory", "path", inv.Path, "error", err)
		} else {
			e.log().Info("deleted inventory directory", "path", inv.Path)
		}
	}

	e.Store.Batch()
	e.Store.Clear(inventoriesPath + "/" + inv.ID)
	md.Remove(id)
	if err := e.Store.Set(invMetaPath, md); err != nil {
		return err
	}
	e.Store.Commit()
	e.log().Info("inventory deleted", "id", inv.ID)
	return nil
}

// AddCardsResult reports what an AddCards call did.
type AddCardsResult struct {
	Added   int
	Skipped []tappedout.LineError
}

// AddCards reads tappedout board lists and merges their cards into an
// inventory, filling in full card data from Scryfall. Malformed lines are
// skipped and reported; a file yielding no cards at all aborts the whole
// operation before anything is written.
func (e *Env) AddCards(ctx context.Context, id string, listFiles ...string) (*AddCardsResult, error) {
	inv, _, err := e.inventoryFromStore(id)
	if err != nil {
		return nil, err
	}
	if len(listFiles) == 0 {
		return nil, fmt.Errorf("no card list files given")
	}

	result := &AddCardsResult{}
	var toAdd []card.OwnedCard
	for _, listFile := range listFiles {
		e.log().Info("reading card list", "file", listFile)
		fp, err := os.Open(listFile)
		if err != nil {
			return nil, err
		}
		parsed, bad, perr := tappedout.ParseList(fp)
		fp.Close()
		for _, le := range bad {
			e.log().Warn("skipping bad list line", "file", listFile, "line", le.Line, "error", le.Err)
		}
		result.Skipped = append(result.Skipped, bad...)
		if perr != nil {
			return nil, fmt.Errorf("reading %s: %w", listFile, perr)
		}

		filled, err := e.fillCardData(ctx, parsed)
		if err != nil {
			return nil, err
		}
		toAdd = append(toAdd, filled...)
	}

	for _, c := range toAdd {
		inv.AddCard(c)
		result.Added += c.Count
	}

	if err := e.Store.Set(inventoriesPath+"/"+inv.ID, inv); err != nil {
		return nil, err
	}
	if err := inv.WriteFile(); err != nil {
		e.log().Warn("store records updated but the inventory directory could not be rewritten", "id", inv.ID, "error", err)
	}
	e.log().Info("cards added to inventory", "id", inv.ID, "added", result.Added)
	return result, nil
}

// fillCardData resolves each parsed list entry into a complete card via
// Scryfall, carrying over the physical attributes from the list line.
func (e *Env) fillCardData(ctx context.Context, parsed []card.OwnedCard) ([]card.OwnedCard, error) {
	e.log().Info("filling incomplete card data from scryfall", "cards", len(parsed))
	filled := make([]card.OwnedCard, 0, len(parsed))
	report := progress.OnceEvery(5*time.Second, func() {
		e.log().Info("card data progress", "done", progress.Ratio(len(filled), len(parsed)))
	})
	for _, c := range parsed {
		report()
		if c.Number == "" {
			num, err := e.API.CardDefaultNum(ctx, c.Name(), c.Set)
			if err != nil {
				return nil, fmt.Errorf("resolving number for %q in %s: %w", c.Name(), c.Set, err)
			}
			c.Number = num
		}
		full, err := e.API.CardByNum(ctx, c.Set, c.Number, c.Language)
		if err != nil {
			return nil, fmt.Errorf("fetching %s:%s: %w", c.Set, c.Number, err)
		}
		filled = append(filled, card.OwnedCard{
			Card:      full,
			Condition: c.Condition,
			Foil:      c.Foil,
			Count:     c.Count,
		})
	}
	return filled, nil
}
