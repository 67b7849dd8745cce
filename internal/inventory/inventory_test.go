package inventory

import (
	"path/filepath"
	"testing"

	"qmtg/internal/card"
)

func ownedCard(set, number string, count int, foil bool) card.OwnedCard {
	return card.OwnedCard{
		Card: card.Card{
			Set:      set,
			Number:   number,
			Language: "en",
			Faces:    []card.Face{{Name: "Card " + set + ":" + number}},
		},
		Condition: card.Mint,
		Foil:      foil,
		Count:     count,
	}
}

func TestNormalizeID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My Binder Stock!", "my_binder_stock_"},
		{"trades", "trades"},
		{"  UPPER case  ", "upper_case"},
		{"a-b.c", "a_b_c"},
	}
	for _, tc := range cases {
		if got := NormalizeID(tc.in); got != tc.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAddCardMergesVariants(t *testing.T) {
	inv := New("main", "Main", t.TempDir())
	inv.AddCard(ownedCard("lea", "161", 2, false))
	inv.AddCard(ownedCard("lea", "161", 3, false))
	inv.AddCard(ownedCard("lea", "161", 1, true))

	if len(inv.Cards) != 2 {
		t.Fatalf("have %d variants, want 2", len(inv.Cards))
	}
	if inv.Count() != 6 {
		t.Errorf("Count() = %d, want 6", inv.Count())
	}
	plain := ownedCard("lea", "161", 0, false)
	if got := inv.Cards[plain.VariantKey()].Count; got != 5 {
		t.Errorf("plain copy count = %d, want 5", got)
	}
}

func TestInventoryFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inv := New("trades", "Trade Stock", dir)
	inv.AddCard(ownedCard("isd", "51", 4, false))
	inv.AddCard(ownedCard("lea", "161", 1, true))

	if err := inv.WriteFile(); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(dir)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.ID != "trades" || got.Name != "Trade Stock" {
		t.Errorf("identity = %q/%q", got.ID, got.Name)
	}
	if got.Count() != 5 || len(got.Cards) != 2 {
		t.Errorf("cards = %d variants, %d total", len(got.Cards), got.Count())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing sidecar")
	}
}

func TestInventoryMapRoundTrip(t *testing.T) {
	inv := New("main", "Main", "/tmp/x")
	inv.AddCard(ownedCard("isd", "51", 2, false))
	got := FromMap(inv.ToMap())
	if got.ID != inv.ID || got.Count() != 2 {
		t.Errorf("round trip changed inventory: %+v", got)
	}
}

func TestMetadata(t *testing.T) {
	md := NewMetadata()
	md.Add("b")
	md.Add("a")
	md.Add("a")
	if !md.Has("a") || md.Has("c") {
		t.Error("membership wrong")
	}
	ids := md.SortedIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("SortedIDs = %v", ids)
	}
	md.Remove("a")
	if md.Has("a") {
		t.Error("a should be removed")
	}
	got := MetadataFromMap(md.ToMap())
	if !got.Has("b") || got.Has("a") {
		t.Errorf("round trip = %v", got.SortedIDs())
	}
}
