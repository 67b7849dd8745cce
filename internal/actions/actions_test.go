package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qmtg/internal/scryfall"
	"qmtg/internal/storage"
)

// knownCards maps set:number to card fixtures the fake API serves.
var knownCards = map[string]map[string]any{
	"lea:161": {
		"id":               "11111111-1111-1111-1111-111111111111",
		"set":              "lea",
		"collector_number": "161",
		"rarity":           "common",
		"lang":             "en",
		"layout":           "normal",
		"name":             "Lightning Bolt",
		"type_line":        "Instant",
		"mana_cost":        "{R}",
		"oracle_text":      "Lightning Bolt deals 3 damage to any target.",
	},
	"lea:198": {
		"id":               "22222222-2222-2222-2222-222222222222",
		"set":              "lea",
		"collector_number": "198",
		"rarity":           "common",
		"lang":             "en",
		"layout":           "normal",
		"name":             "Giant Growth",
		"type_line":        "Instant",
		"mana_cost":        "{G}",
		"oracle_text":      "Target creature gets +3/+3 until end of turn.",
	},
}

func fakeScryfall(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cards/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 3 {
			http.NotFound(w, r)
			return
		}
		key := parts[1] + ":" + parts[2]
		fixture, ok := knownCards[key]
		if !ok {
			w.WriteHeader(404)
			json.NewEncoder(w).Encode(map[string]any{
				"object": "error", "status": 404, "details": "No card found.",
			})
			return
		}
		if r.URL.Query().Get("format") == "image" {
			w.Write([]byte("image-bytes-" + key))
			return
		}
		json.NewEncoder(w).Encode(fixture)
	})
	mux.HandleFunc("/back.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("back-image-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testEnv(t *testing.T) (*Env, string) {
	t.Helper()
	srv := fakeScryfall(t)
	home := t.TempDir()

	store, err := storage.NewObjectStore(filepath.Join(home, "qmtg.dat"), nil)
	if err != nil {
		t.Fatalf("NewObjectStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	RegisterTypes(store)

	api, err := scryfall.New(scryfall.Options{
		Host:         srv.URL,
		CacheFile:    filepath.Join(home, "scryfall.dat"),
		FileDir:      filepath.Join(home, "filestore"),
		RateLimit:    time.Millisecond,
		BackImageURI: srv.URL + "/back.jpg",
	})
	if err != nil {
		t.Fatalf("scryfall.New: %v", err)
	}

	return &Env{Store: store, API: api}, home
}

func writeListFile(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "cards.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateInventoryDefaults(t *testing.T) {
	env, home := testEnv(t)

	inv, err := env.CreateInventory("", "", filepath.Join(home, "inv"))
	if err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	if inv.ID != "default" {
		t.Errorf("ID = %q", inv.ID)
	}

	second, err := env.CreateInventory("", "", filepath.Join(home, "inv2"))
	if err != nil {
		t.Fatalf("CreateInventory (second): %v", err)
	}
	if second.ID != "default_1" {
		t.Errorf("second ID = %q", second.ID)
	}

	if _, err := os.Stat(filepath.Join(home, "inv", "inventory.json")); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}
}

func TestAddCardsSkipsBadLinesAndMergesCounts(t *testing.T) {
	env, home := testEnv(t)
	ctx := context.Background()

	if _, err := env.CreateInventory("main", "", filepath.Join(home, "inv")); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	listFile := writeListFile(t, home,
		"2x Lightning Bolt (LEA:161)",
		"this is not a card line",
		"1x Giant Growth (LEA:198) *F*",
	)

	result, err := env.AddCards(ctx, "main", listFile)
	if err != nil {
		t.Fatalf("AddCards: %v", err)
	}
	if result.Added != 3 {
		t.Errorf("Added = %d, want 3", result.Added)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Line != 2 {
		t.Errorf("Skipped = %+v", result.Skipped)
	}

	inv, err := env.ShowInventory("main")
	if err != nil {
		t.Fatalf("ShowInventory: %v", err)
	}
	if len(inv.Cards) != 2 || inv.Count() != 3 {
		t.Errorf("inventory has %d variants, %d cards", len(inv.Cards), inv.Count())
	}

	// re-adding the same list merges counts instead of duplicating entries
	if _, err := env.AddCards(ctx, "main", listFile); err != nil {
		t.Fatalf("AddCards (again): %v", err)
	}
	inv, err = env.ShowInventory("main")
	if err != nil {
		t.Fatalf("ShowInventory (after re-add): %v", err)
	}
	if len(inv.Cards) != 2 || inv.Count() != 6 {
		t.Errorf("after re-add: %d variants, %d cards", len(inv.Cards), inv.Count())
	}
}

func TestAddCardsAllBadAborts(t *testing.T) {
	env, home := testEnv(t)
	if _, err := env.CreateInventory("main", "", filepath.Join(home, "inv")); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	listFile := writeListFile(t, home, "nope", "also nope")

	if _, err := env.AddCards(context.Background(), "main", listFile); err == nil {
		t.Fatal("expected error when no line parses")
	}
	inv, err := env.ShowInventory("main")
	if err != nil {
		t.Fatalf("ShowInventory: %v", err)
	}
	if inv.Count() != 0 {
		t.Errorf("inventory should be untouched, has %d cards", inv.Count())
	}
}

func TestCreateBinderFromInventory(t *testing.T) {
	env, home := testEnv(t)
	ctx := context.Background()

	if _, err := env.CreateInventory("main", "", filepath.Join(home, "inv")); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	listFile := writeListFile(t, home,
		"2x Lightning Bolt (LEA:161)",
		"1x Giant Growth (LEA:198)",
	)
	if _, err := env.AddCards(ctx, "main", listFile); err != nil {
		t.Fatalf("AddCards: %v", err)
	}

	outDir := filepath.Join(home, "binder-view")
	b, err := env.CreateBinder(ctx, "main", outDir, "Trade Binder", "")
	if err != nil {
		t.Fatalf("CreateBinder: %v", err)
	}
	if b.ID != "trade_binder" || len(b.Cards) != 2 {
		t.Errorf("binder = %q with %d cards", b.ID, len(b.Cards))
	}

	for _, f := range []string{
		"index.html",
		"binder001.html",
		"binder.json",
		filepath.Join("assets", "styles.css"),
		filepath.Join("assets", "flip.svg"),
		filepath.Join("assets", "images", "back.jpg"),
		filepath.Join("assets", "images", "LEA-161-front-large-en.jpg"),
		filepath.Join("assets", "images", "LEA-198-front-large-en.jpg"),
	} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Errorf("missing output file %s: %v", f, err)
		}
	}

	page, err := os.ReadFile(filepath.Join(outDir, "binder001.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "LEA-161-front-large-en.jpg") {
		t.Error("page does not reference the card image")
	}
}

func TestCreateBinderFromListFile(t *testing.T) {
	env, home := testEnv(t)
	listFile := writeListFile(t, home, "1x Lightning Bolt (LEA:161)")

	b, err := env.CreateBinder(context.Background(), listFile, filepath.Join(home, "view"), "", "")
	if err != nil {
		t.Fatalf("CreateBinder: %v", err)
	}
	if b.ID != "default" || len(b.Cards) != 1 {
		t.Errorf("binder = %q with %d cards", b.ID, len(b.Cards))
	}
	if b.Cards[0].Name() != "Lightning Bolt" {
		t.Errorf("card = %q", b.Cards[0].Name())
	}
}

func TestEditInventoryRename(t *testing.T) {
	env, home := testEnv(t)
	if _, err := env.CreateInventory("main", "", filepath.Join(home, "inv")); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}

	inv, err := env.EditInventory("main", "Primary Stock", "", "")
	if err != nil {
		t.Fatalf("EditInventory: %v", err)
	}
	if inv.ID != "primary_stock" {
		t.Errorf("new ID = %q", inv.ID)
	}

	if _, err := env.ShowInventory("main"); err == nil {
		t.Error("old ID should no longer resolve")
	}
	if _, err := env.ShowInventory("primary_stock"); err != nil {
		t.Errorf("new ID should resolve: %v", err)
	}
}

func TestDeleteInventory(t *testing.T) {
	env, home := testEnv(t)
	invDir := filepath.Join(home, "inv")
	if _, err := env.CreateInventory("main", "", invDir); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}

	if err := env.DeleteInventory("main", true); err != nil {
		t.Fatalf("DeleteInventory: %v", err)
	}
	if _, err := env.ShowInventory("main"); err == nil {
		t.Error("deleted inventory should not resolve")
	}
	if _, err := os.Stat(invDir); !os.IsNotExist(err) {
		t.Error("inventory directory should be removed")
	}
}

func TestInventoryIndexSelfRepairs(t *testing.T) {
	env, home := testEnv(t)
	if _, err := env.CreateInventory("main", "", filepath.Join(home, "inv")); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}

	// simulate a damaged store: the index lists the inventory but its
	// record is gone
	env.Store.Clear(inventoriesPath + "/main")

	if _, err := env.ShowInventory("main"); err == nil {
		t.Fatal("expected error for missing record")
	}
	rows, err := env.ListInventories()
	if err != nil {
		t.Fatalf("ListInventories: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("index should be repaired, still lists %d inventories", len(rows))
	}
}

func TestSearchCards(t *testing.T) {
	env, _ := testEnv(t)
	_, err := env.SearchCards(context.Background(), false, "")
	if err == nil {
		t.Fatal("expected error with no names")
	}
}
