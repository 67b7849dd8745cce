package card

import (
	"testing"

	"github.com/google/uuid"
)

func twoFacedCard() Card {
	return Card{
		ID:       uuid.MustParse("56ebc372-aabd-4174-a943-c7bf59e5028d"),
		Set:      "isd",
		Rarity:   "uncommon",
		Number:   "51",
		Language: "en",
		Faces: []Face{
			{Name: "Delver of Secrets", Type: "Creature - Human Wizard", Cost: "{U}", Text: "At the beginning of your upkeep, look at the top card of your library.", Power: "1", Toughness: "1"},
			{Name: "Insectile Aberration", Type: "Creature - Human Insect", Text: "Flying", Power: "3", Toughness: "2"},
		},
	}
}

func TestCardJoinedProperties(t *testing.T) {
	c := twoFacedCard()
	if got := c.Name(); got != "Delver of Secrets // Insectile Aberration" {
		t.Errorf("Name() = %q", got)
	}
	if got := c.Type(); got != "Creature - Human Wizard // Creature - Human Insect" {
		t.Errorf("Type() = %q", got)
	}
	if got := c.Cost(); got != "{U} // " {
		t.Errorf("Cost() = %q", got)
	}
}

func TestCardEmptyFaces(t *testing.T) {
	var c Card
	if got := c.Name(); got != "" {
		t.Errorf("Name() on faceless card = %q", got)
	}
	if got := c.Color(); len(got) != 0 {
		t.Errorf("Color() on faceless card = %v", got)
	}
}

func TestCardColor(t *testing.T) {
	c := twoFacedCard()
	colors := c.Color()
	if len(colors) != 1 || colors[0].Symbol != "U" {
		t.Errorf("Color() = %v, want blue only", colors)
	}
}

func TestConditionFromSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want Condition
	}{
		{"", Mint},
		{"*SL*", SlightlyUsed},
		{"ME", MediumUsed},
		{"*HE*", HeavyUsed},
		{"??", Mint},
	}
	for _, tc := range cases {
		if got := ConditionFromSymbol(tc.in); got != tc.want {
			t.Errorf("ConditionFromSymbol(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSizeFromString(t *testing.T) {
	s, err := SizeFromString("Full")
	if err != nil {
		t.Fatalf("SizeFromString: %v", err)
	}
	if s.APIName != "png" || s.Format != "png" {
		t.Errorf("full size = %+v", s)
	}
	if _, err := SizeFromString("jumbo"); err == nil {
		t.Error("expected error for unknown size")
	}
}

func TestPadNumber(t *testing.T) {
	cases := []struct{ in, want string }{
		{"7", "007"},
		{"51", "051"},
		{"123", "123"},
		{"1234", "1234"},
		{"12a", "012a"},
		{"★", "★"},
	}
	for _, tc := range cases {
		if got := PadNumber(tc.in); got != tc.want {
			t.Errorf("PadNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestImageSlug(t *testing.T) {
	c := twoFacedCard()
	want := "ISD-051-front-small-en.jpg"
	if got := ImageSlug(c, SizeSmall); got != want {
		t.Errorf("ImageSlug = %q, want %q", got, want)
	}
}

func TestVariantKeyDistinguishesPhysicalVariants(t *testing.T) {
	base := OwnedCard{Card: twoFacedCard(), Condition: Mint, Count: 1}
	foil := base
	foil.Foil = true
	worn := base
	worn.Condition = HeavyUsed
	if base.VariantKey() == foil.VariantKey() {
		t.Error("foil variant should have a distinct key")
	}
	if base.VariantKey() == worn.VariantKey() {
		t.Error("condition variant should have a distinct key")
	}
	same := OwnedCard{Card: twoFacedCard(), Condition: Mint, Count: 4}
	if base.VariantKey() != same.VariantKey() {
		t.Error("count should not affect the variant key")
	}
}

func TestOwnedCardMapRoundTrip(t *testing.T) {
	o := OwnedCard{Card: twoFacedCard(), Condition: SlightlyUsed, Foil: true, Count: 3}
	got := OwnedFromMap(o.ToMap())
	if got.Name() != o.Name() || got.Set != o.Set || got.Number != o.Number {
		t.Errorf("card identity changed: %+v", got.Card)
	}
	if got.Condition != SlightlyUsed || !got.Foil || got.Count != 3 {
		t.Errorf("physical attributes changed: %+v", got)
	}
	if got.ID != o.ID {
		t.Errorf("id changed: %v", got.ID)
	}
}

func TestOwnedFromMapFloatCount(t *testing.T) {
	m := twoFacedCard().ToMap()
	m["condition"] = ""
	m["foil"] = false
	m["count"] = float64(2)
	got := OwnedFromMap(m)
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
}
