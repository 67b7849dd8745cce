package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"qmtg/internal/binder"
	"qmtg/internal/card"
	"qmtg/internal/fileutil"
	"qmtg/internal/inventory"
	"qmtg/internal/progress"
	"qmtg/internal/tappedout"
)

// BinderSummary is one row of a binder listing.
type BinderSummary struct {
	ID    string
	Name  string
	Path  string
	Cards int
}

// CreateBinder builds a browsable HTML binder view at outputDir. The
// source is either the ID of an existing inventory or the path of a
// tappedout board list; inventory IDs are checked first.
func (e *Env) CreateBinder(ctx context.Context, source, outputDir, name, id string) (*binder.Binder, error) {
	md, err := e.binderMeta()
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

	b := binder.New(idName, name, outputDir)
	if b.ID == "" {
		return nil, fmt.Errorf("binder ID normalizes to an empty string")
	}
	if md.Has(b.ID) {
		return nil, fmt.Errorf("binder %q already exists", b.ID)
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	e.log().Info("(1/6) gathering cards", "source", source)
	cards, err := e.gatherBinderCards(ctx, source)
	if err != nil {
		return nil, err
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Less(cards[j]) })
	b.Cards = cards

	e.log().Info("(2/6) generating binder pages", "cards", len(cards))
	if err := e.generateBinderPages(b); err != nil {
		return nil, err
	}
	e.log().Info("(3/6) copying image data to output directory")
	if err := e.copyBinderImages(ctx, b); err != nil {
		return nil, err
	}
	e.log().Info("(4/6) generating index page")
	if err := e.generateBinderIndex(b); err != nil {
		return nil, err
	}
	e.log().Info("(5/6) copying static assets")
	if err := copyBinderAssets(outputDir); err != nil {
		return nil, err
	}

	e.log().Info("(6/6) recording binder")
	if err := b.WriteFile(); err != nil {
		return nil, err
	}
	e.Store.Batch()
	if err := e.Store.Set(bindersPath+"/"+b.ID, b); err != nil {
		return nil, err
	}
	md.Add(b.ID)
	if err := e.Store.Set(binderMetaPath, md); err != nil {
		return nil, err
	}
	e.Store.Commit()

	e.log().Info("binder view ready", "id", b.ID, "index", filepath.Join(outputDir, "index.html"))
	return b, nil
}

// gatherBinderCards resolves the binder source into a complete card list.
func (e *Env) gatherBinderCards(ctx context.Context, source string) ([]card.OwnedCard, error) {
	md, err := e.inventoryMeta()
	if err != nil {
		return nil, err
	}
	if md.Has(source) {
		inv, _, err := e.inventoryFromStore(source)
		if err != nil {
			return nil, err
		}
		if len(inv.Cards) == 0 {
			return nil, fmt.Errorf("inventory %q has no cards", source)
		}
		return inv.SortedCards(), nil
	}

	fp, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%q is neither an inventory ID nor a readable list file: %w", source, err)
	}
	defer fp.Close()
	parsed, bad, perr := tappedout.ParseList(fp)
	for _, le := range bad {
		e.log().Warn("skipping bad list line", "file", source, "line", le.Line, "error", le.Err)
	}
	if perr != nil {
		return nil, fmt.Errorf("reading %s: %w", source, perr)
	}
	return e.fillCardData(ctx, parsed)
}

func (e *Env) generateBinderPages(b *binder.Binder) error {
	perPage := binder.DefaultRows * binder.DefaultCols
	total := binder.TotalPages(len(b.Cards), binder.DefaultRows, binder.DefaultCols)
	for pageno := 1; pageno <= total; pageno++ {
		start := (pageno - 1) * perPage
		end := start + perPage
		if end > len(b.Cards) {
			end = len(b.Cards)
		}
		content, err := binder.RenderPage(b.Name, b.Cards[start:end], pageno, total, binder.DefaultRows, binder.DefaultCols)
		if err != nil {
			return fmt.Errorf("rendering page %d: %w", pageno, err)
		}
		dest := filepath.Join(b.Path, binder.PageFileName(pageno))
		if err := fileutil.WriteFileAtomic(dest, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (e *Env) generateBinderIndex(b *binder.Binder) error {
	total := binder.TotalPages(len(b.Cards), binder.DefaultRows, binder.DefaultCols)
	content, err := binder.RenderIndex(b.Name, total)
	if err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	return fileutil.WriteFileAtomic(filepath.Join(b.Path, "index.html"), []byte(content), 0o644)
}

// copyBinderImages downloads the card images the pages reference into the
// view's assets directory, plus the shared card back.
func (e *Env) copyBinderImages(ctx context.Context, b *binder.Binder) error {
	imagesDir := filepath.Join(b.Path, "assets", "images")
	if err := fileutil.EnsureDir(imagesDir); err != nil {
		return err
	}

	done := 0
	report := progress.OnceEvery(5*time.Second, func() {
		e.log().Info("image copy progress", "done", progress.Ratio(done, len(b.Cards)))
	})
	for _, c := range b.Cards {
		report()
		data, err := e.API.CardImage(ctx, c.Set, c.Number, c.Language, card.SizeLarge, false)
		if err != nil {
			return fmt.Errorf("fetching image for %s:%s: %w", c.Set, c.Number, err)
		}
		dest := filepath.Join(imagesDir, card.ImageSlug(c.Card, card.SizeLarge))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
		done++
	}

	backData, backFmt, err := e.API.CardBackImage(ctx)
	if err != nil {
		return fmt.Errorf("fetching card back image: %w", err)
	}
	return os.WriteFile(filepath.Join(imagesDir, "back."+backFmt), backData, 0o644)
}

func copyBinderAssets(outputDir string) error {
	assetsDir := filepath.Join(outputDir, "assets")
	if err := fileutil.EnsureDir(assetsDir); err != nil {
		return err
	}
	assets, err := binder.StaticAssets()
	if err != nil {
		return err
	}
	for name, data := range assets {
		if err := os.WriteFile(filepath.Join(assetsDir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// ListBinders returns a summary row for every known binder.
func (e *Env) ListBinders() ([]BinderSummary, error) {
	md, err := e.binderMeta()
	if err != nil {
		return nil, err
	}
	var rows []BinderSummary
	for _, id := range md.IDs {
		b, _, err := e.binderFromStore(id)
		if err != nil {
			continue
		}
		rows = append(rows, BinderSummary{ID: b.ID, Name: b.Name, Path: b.Path, Cards: len(b.Cards)})
	}
	return rows, nil
}

// ShowBinder returns the full record of one binder.
func (e *Env) ShowBinder(id string) (*binder.Binder, error) {
	b, _, err := e.binderFromStore(id)
	return b, err
}

// EditBinder renames or relocates a binder. A name change regenerates the
// view's pages so the rendered title stays current.
func (e *Env) EditBinder(id, newID, newName, newPath string) (*binder.Binder, error) {
	b, md, err := e.binderFromStore(id)
	if err != nil {
		return nil, err
	}

	oldID := b.ID
	oldName := b.Name
	updated := false
	if newPath != "" {
		b.Path = newPath
		updated = true
	}
	if newID != "" {
		b.SetID(newID)
		if b.ID == "" {
			return nil, fmt.Errorf("new binder ID normalizes to an empty string")
		}
		updated = true
	}
	if newName != "" {
		b.Name = newName
		updated = true
	}
	if !updated {
		return b, nil
	}

	e.Store.Batch()
	if err := e.Store.Set(bindersPath+"/"+b.ID, b); err != nil {
		return nil, err
	}
	if b.ID != oldID {
		e.Store.Clear(bindersPath + "/" + oldID)
		md.Remove(oldID)
		md.Add(b.ID)
		if err := e.Store.Set(binderMetaPath, md); err != nil {
			return nil, err
		}
	}
	e.Store.Commit()

	if b.Name != oldName {
		e.log().Info("name changed, regenerating binder view", "id", b.ID)
		if err := e.generateBinderPages(b); err != nil {
			e.log().Warn("store records updated but the binder view could not be regenerated", "id", b.ID, "error", err)
			return b, nil
		}
		if err := e.generateBinderIndex(b); err != nil {
			e.log().Warn("store records updated but the binder index could not be regenerated", "id", b.ID, "error", err)
			return b, nil
		}
	}
	if err := b.WriteFile(); err != nil {
		e.log().Warn("store records updated but the binder directory could not be rewritten", "id", b.ID, "error", err)
	}
	return b, nil
}

// DeleteBinder removes a binder from the store. With deleteBuilt set, the
// generated view directory is removed too.
func (e *Env) DeleteBinder(id string, deleteBuilt bool) error {
	b, md, err := e.binderFromStore(id)
	if err != nil {
		return err
	}

	if deleteBuilt {
		if err := os.RemoveAll(b.Path); err != nil {
			e.log().Warn("could not delete binder view directory", "path", b.Path, "error", err)
		} else {
			e.log().Info("deleted binder view directory", "path", b.Path)
		}
	}

	e.Store.Batch()
	e.Store.Clear(bindersPath + "/" + b.ID)
	md.Remove(id)
	if err := e.Store.Set(binderMetaPath, md); err != nil {
		return err
	}
	e.Store.Commit()
	e.log().Info("binder deleted", "id", b.ID)
	return nil
}
