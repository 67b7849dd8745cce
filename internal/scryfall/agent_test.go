package scryfall

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"qmtg/internal/card"
)

const testCardID = "56ebc372-aabd-4174-a943-c7bf59e5028d"

func cardResponse() map[string]any {
	return map[string]any{
		"object":           "card",
		"id":               testCardID,
		"set":              "lea",
		"collector_number": "161",
		"rarity":           "common",
		"lang":             "en",
		"layout":           "normal",
		"name":             "Lightning Bolt",
		"type_line":        "Instant",
		"mana_cost":        "{R}",
		"oracle_text":      "Lightning Bolt deals 3 damage to any target.",
	}
}

// testAgent serves the given handler and returns an agent backed by it plus
// a counter of requests actually made.
func testAgent(t *testing.T, handler http.Handler) (*Agent, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	a, err := New(Options{
		Host:      srv.URL,
		CacheFile: filepath.Join(dir, "scryfall.dat"),
		FileDir:   filepath.Join(dir, "filestore"),
		RateLimit: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, &hits
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestCardByNumCachesResponse(t *testing.T) {
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, cardResponse())
	}))

	ctx := context.Background()
	c, err := a.CardByNum(ctx, "LEA", "161", "")
	if err != nil {
		t.Fatalf("CardByNum: %v", err)
	}
	if c.Name() != "Lightning Bolt" || c.Set != "lea" || c.Number != "161" || c.Language != "en" {
		t.Errorf("parsed card = %+v", c)
	}

	again, err := a.CardByNum(ctx, "lea", "161", "en")
	if err != nil {
		t.Fatalf("CardByNum (cached): %v", err)
	}
	if again.Name() != c.Name() {
		t.Errorf("cached card differs: %q", again.Name())
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestCardByIDUsesIDMap(t *testing.T) {
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, cardResponse())
	}))

	ctx := context.Background()
	if _, err := a.CardByNum(ctx, "lea", "161", ""); err != nil {
		t.Fatalf("CardByNum: %v", err)
	}
	c, err := a.CardByID(ctx, uuid.MustParse(testCardID))
	if err != nil {
		t.Fatalf("CardByID: %v", err)
	}
	if c.Name() != "Lightning Bolt" {
		t.Errorf("Name = %q", c.Name())
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestErrorResponsesNotCached(t *testing.T) {
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]any{
			"object":  "error",
			"status":  404,
			"details": "No card found.",
		})
	}))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := a.CardByNum(ctx, "lea", "999", "")
		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if !apiErr.IsNotFound() || apiErr.Message != "No card found." {
			t.Errorf("apiErr = %+v", apiErr)
		}
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestSearchNeverCached(t *testing.T) {
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"object": "list", "data": []any{cardResponse()}})
	}))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		results, err := a.SearchCards(ctx, "Lightning Bolt", true, "lea")
		if err != nil {
			t.Fatalf("SearchCards: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results", len(results))
		}
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestCatalogExpiry(t *testing.T) {
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{
			"object": "catalog",
			"data":   []any{"Human", "Wizard"},
		})
	}))

	ctx := context.Background()
	current := time.Now()
	a.now = func() time.Time { return current }

	types, err := a.Catalog(ctx, "creature-types")
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(types) != 2 || types[0] != "Human" {
		t.Errorf("types = %v", types)
	}

	if _, err := a.Catalog(ctx, "creature-types"); err != nil {
		t.Fatalf("Catalog (cached): %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hit %d times before expiry, want 1", got)
	}

	current = current.Add(8 * 24 * time.Hour)
	if _, err := a.Catalog(ctx, "creature-types"); err != nil {
		t.Fatalf("Catalog (expired): %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times after expiry, want 2", got)
	}
}

func TestCardImageCachedOnDisk(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(image)
	}))

	ctx := context.Background()
	got, err := a.CardImage(ctx, "lea", "161", "", card.SizeSmall, false)
	if err != nil {
		t.Fatalf("CardImage: %v", err)
	}
	if string(got) != string(image) {
		t.Errorf("image bytes differ")
	}
	if _, err := a.CardImage(ctx, "lea", "161", "", card.SizeSmall, false); err != nil {
		t.Fatalf("CardImage (cached): %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestCacheSurvivesRestart(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, 200, cardResponse())
	}))
	defer srv.Close()

	dir := t.TempDir()
	opts := Options{
		Host:      srv.URL,
		CacheFile: filepath.Join(dir, "scryfall.dat"),
		FileDir:   filepath.Join(dir, "filestore"),
		RateLimit: time.Millisecond,
	}

	ctx := context.Background()
	first, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := first.CardByNum(ctx, "lea", "161", ""); err != nil {
		t.Fatalf("CardByNum: %v", err)
	}

	second, err := New(opts)
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	c, err := second.CardByNum(ctx, "lea", "161", "")
	if err != nil {
		t.Fatalf("CardByNum (reopened): %v", err)
	}
	if c.Name() != "Lightning Bolt" {
		t.Errorf("Name = %q", c.Name())
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times across restarts, want 1", got)
	}
}

func TestCardDefaultNum(t *testing.T) {
	a, hits := testAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"object": "list", "data": []any{cardResponse()}})
	}))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		num, err := a.CardDefaultNum(ctx, "Lightning Bolt", "LEA")
		if err != nil {
			t.Fatalf("CardDefaultNum: %v", err)
		}
		if num != "161" {
			t.Errorf("num = %q", num)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestBuildSearchQuery(t *testing.T) {
	cases := []struct {
		name, set string
		exact     bool
		want      string
	}{
		{"Lightning Bolt", "", false, "Lightning Bolt"},
		{"Lightning Bolt", "lea", true, `!"Lightning Bolt" set:lea`},
		{`Ach! Hans, "Run!"`, "", true, `!"Ach! Hans, \"Run!\""`},
		{"", "lea", false, "set:lea"},
	}
	for _, tc := range cases {
		if got := buildSearchQuery(tc.name, tc.set, tc.exact); got != tc.want {
			t.Errorf("buildSearchQuery(%q, %q, %v) = %q, want %q", tc.name, tc.set, tc.exact, got, tc.want)
		}
	}
}

func TestParseCardMultiFace(t *testing.T) {
	resp := map[string]any{
		"id":               testCardID,
		"set":              "isd",
		"collector_number": "51",
		"rarity":           "uncommon",
		"lang":             "en",
		"layout":           "transform",
		"card_faces": []any{
			map[string]any{"name": "Delver of Secrets", "type_line": "Creature", "mana_cost": "{U}"},
			map[string]any{"name": "Insectile Aberration", "type_line": "Creature"},
		},
	}
	c := parseCard(resp)
	if len(c.Faces) != 2 {
		t.Fatalf("faces = %d, want 2", len(c.Faces))
	}
	if c.Name() != "Delver of Secrets // Insectile Aberration" {
		t.Errorf("Name = %q", c.Name())
	}
}
