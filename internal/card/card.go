package card

import (
	"strings"

	"github.com/google/uuid"

	"qmtg/internal/color"
	"qmtg/internal/lang"
)

// Face is one printed face of a card. Single-faced cards have exactly one;
// transform and modal cards have two.
type Face struct {
	Name      string
	Type      string
	Cost      string
	Text      string
	Power     string
	Toughness string
}

// Color returns the colors in the face's mana cost.
func (f Face) Color() []color.Color {
	return color.ExtractLoyalty(f.Cost)
}

// ColorLoyalty returns the colors across the face's cost and rules text,
// approximating color identity.
func (f Face) ColorLoyalty() []color.Color {
	return color.Union(color.ExtractLoyalty(f.Cost), color.ExtractLoyalty(f.Text))
}

// Card identifies a single printing of a card within a set. ID is the
// Scryfall UUID for the printing. Number is the collector number, kept as a
// string because some sets use alphanumeric numbers.
type Card struct {
	ID       uuid.UUID
	Set      string
	Rarity   string
	Number   string
	Language string
	Faces    []Face
}

func joinFaces(faces []Face, pick func(Face) string) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = pick(f)
	}
	return strings.Join(parts, " // ")
}

// Name joins the face names with " // ".
func (c Card) Name() string {
	return joinFaces(c.Faces, func(f Face) string { return f.Name })
}

// Type joins the face type lines with " // ".
func (c Card) Type() string {
	return joinFaces(c.Faces, func(f Face) string { return f.Type })
}

// Cost joins the face mana costs with " // ".
func (c Card) Cost() string {
	return joinFaces(c.Faces, func(f Face) string { return f.Cost })
}

// Text joins the face rules texts with " // ".
func (c Card) Text() string {
	return joinFaces(c.Faces, func(f Face) string { return f.Text })
}

// Color returns the union of the face colors, in WUBRG order.
func (c Card) Color() []color.Color {
	var all []color.Color
	for _, f := range c.Faces {
		all = color.Union(all, f.Color())
	}
	return all
}

// ColorLoyalty returns the union of the face color loyalties, in WUBRG
// order.
func (c Card) ColorLoyalty() []color.Color {
	var all []color.Color
	for _, f := range c.Faces {
		all = color.Union(all, f.ColorLoyalty())
	}
	return all
}

// OwnedCard is a card plus the physical attributes of the copies owned.
// Count is the number of copies sharing the same condition and finish.
type OwnedCard struct {
	Card
	Condition Condition
	Foil      bool
	Count     int
}

// VariantKey identifies an owned variant within an inventory. Two entries
// with the same key are the same physical kind of card and their counts
// merge.
func (o OwnedCard) VariantKey() string {
	foil := ""
	if o.Foil {
		foil = "F"
	}
	return strings.ToLower(o.Set) + ":" + o.Number + ":" + o.Language + ":" + o.Condition.Symbol + ":" + foil
}

// Less orders owned cards for display, by set then collector number then
// name.
func (o OwnedCard) Less(other OwnedCard) bool {
	if o.Set != other.Set {
		return o.Set < other.Set
	}
	if o.Number != other.Number {
		return o.Number < other.Number
	}
	return o.Name() < other.Name()
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// ToMap renders the card as a plain map for storage.
func (c Card) ToMap() map[string]any {
	faces := make([]any, len(c.Faces))
	for i, f := range c.Faces {
		faces[i] = map[string]any{
			"name":      f.Name,
			"type":      f.Type,
			"cost":      f.Cost,
			"text":      f.Text,
			"power":     f.Power,
			"toughness": f.Toughness,
		}
	}
	return map[string]any{
		"id":       c.ID.String(),
		"set":      c.Set,
		"rarity":   c.Rarity,
		"number":   c.Number,
		"language": c.Language,
		"faces":    faces,
	}
}

// FromMap rebuilds a card from its storage form. Unknown or malformed
// fields fall back to zero values rather than failing.
func FromMap(m map[string]any) Card {
	c := Card{
		Set:      stringField(m, "set"),
		Rarity:   stringField(m, "rarity"),
		Number:   stringField(m, "number"),
		Language: lang.Normalize(stringField(m, "language")),
	}
	if id, err := uuid.Parse(stringField(m, "id")); err == nil {
		c.ID = id
	}
	rawFaces, _ := m["faces"].([]any)
	for _, rf := range rawFaces {
		fm, ok := rf.(map[string]any)
		if !ok {
			continue
		}
		c.Faces = append(c.Faces, Face{
			Name:      stringField(fm, "name"),
			Type:      stringField(fm, "type"),
			Cost:      stringField(fm, "cost"),
			Text:      stringField(fm, "text"),
			Power:     stringField(fm, "power"),
			Toughness: stringField(fm, "toughness"),
		})
	}
	return c
}

// ToMap renders the owned card and its physical attributes for storage.
func (o OwnedCard) ToMap() map[string]any {
	m := o.Card.ToMap()
	m["condition"] = o.Condition.Symbol
	m["foil"] = o.Foil
	m["count"] = o.Count
	return m
}

// OwnedFromMap rebuilds an owned card from its storage form.
func OwnedFromMap(m map[string]any) OwnedCard {
	o := OwnedCard{
		Card:      FromMap(m),
		Condition: ConditionFromSymbol(stringField(m, "condition")),
		Foil:      boolField(m, "foil"),
		Count:     intField(m, "count"),
	}
	if o.Count < 1 {
		o.Count = 1
	}
	return o
}
