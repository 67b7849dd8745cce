// Package mtgset models Magic card sets as reported by Scryfall. Some sets
// are grouping constructs rather than official products, so the type field
// carries what kind of release a set is.
package mtgset

import (
	"time"

	"github.com/google/uuid"
)

// SetType classifies a release. The string value matches the Scryfall
// set_type field.
type SetType string

const (
	TypeCore            SetType = "core"
	TypeExpansion       SetType = "expansion"
	TypeMasters         SetType = "masters"
	TypeMasterpiece     SetType = "masterpiece"
	TypeFromTheVault    SetType = "from_the_vault"
	TypeSpellbook       SetType = "spellbook"
	TypePremiumDeck     SetType = "premium_deck"
	TypeDuelDeck        SetType = "duel_deck"
	TypeDraftInnovation SetType = "draft_innovation"
	TypeTreasureChest   SetType = "treasure_chest"
	TypeCommander       SetType = "commander"
	TypePlanechase      SetType = "planechase"
	TypeArchenemy       SetType = "archenemy"
	TypeVanguard        SetType = "vanguard"
	TypeFunny           SetType = "funny"
	TypeStarter         SetType = "starter"
	TypeBox             SetType = "box"
	TypePromo           SetType = "promo"
	TypeToken           SetType = "token"
	TypeMemorabilia     SetType = "memorabilia"
)

var setTypes = map[SetType]string{
	TypeCore:            "A yearly Magic core set",
	TypeExpansion:       "A rotational expansion set in a block",
	TypeMasters:         "A reprint set that contains no new cards",
	TypeMasterpiece:     "Masterpiece Series premium foil cards",
	TypeFromTheVault:    "From the Vault gift sets",
	TypeSpellbook:       "Spellbook series gift sets",
	TypePremiumDeck:     "Premium Deck Series decks",
	TypeDuelDeck:        "Duel Decks",
	TypeDraftInnovation: "Special draft sets, like Conspiracy and Battlebond",
	TypeTreasureChest:   "Magic Online treasure chest prize sets",
	TypeCommander:       "Commander preconstructed decks",
	TypePlanechase:      "Planechase sets",
	TypeArchenemy:       "Archenemy sets",
	TypeVanguard:        "Vanguard card sets",
	TypeFunny:           "A funny un-set or set with funny promos",
	TypeStarter:         "A starter or introductory set",
	TypeBox:             "A gift box set",
	TypePromo:           "A set of purely promotional cards",
	TypeToken:           "A set made up of tokens and emblems",
	TypeMemorabilia:     "Gold-bordered, oversize, or trophy cards that are not legal",
}

// ParseType resolves a set type name. Unknown names resolve to TypeCore, as
// an unrecognized set is treated like an ordinary release.
func ParseType(name string) SetType {
	st := SetType(name)
	if _, ok := setTypes[st]; ok {
		return st
	}
	return TypeCore
}

// Describe returns the short description of a set type.
func Describe(st SetType) string {
	return setTypes[st]
}

// Set is one Scryfall card set. Code is the unique three to five letter set
// code, always lower case.
type Set struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Type        SetType
	ReleaseDate time.Time
	Block       string
	ParentSet   string
	CardCount   int
	Digital     bool
	FoilOnly    bool
	NonfoilOnly bool
}

// HasFoils reports whether the set includes foil printings.
func (s Set) HasFoils() bool {
	return !s.NonfoilOnly
}

// HasNonfoils reports whether the set includes nonfoil printings.
func (s Set) HasNonfoils() bool {
	return !s.FoilOnly
}

// Less orders sets by type, then release date, then name.
func (s Set) Less(other Set) bool {
	if s.Type != other.Type {
		return s.Type < other.Type
	}
	if !s.ReleaseDate.Equal(other.ReleaseDate) {
		return s.ReleaseDate.Before(other.ReleaseDate)
	}
	return s.Name < other.Name
}

// ToMap renders the set as a plain map for storage.
func (s Set) ToMap() map[string]any {
	return map[string]any{
		"id":           s.ID.String(),
		"code":         s.Code,
		"name":         s.Name,
		"type":         string(s.Type),
		"release_date": s.ReleaseDate.Format("2006-01-02"),
		"block":        s.Block,
		"parent_set":   s.ParentSet,
		"card_count":   s.CardCount,
		"digital":      s.Digital,
		"foil_only":    s.FoilOnly,
		"nonfoil_only": s.NonfoilOnly,
	}
}

// FromMap rebuilds a set from its storage form.
func FromMap(m map[string]any) Set {
	s := Set{
		Code:      str(m, "code"),
		Name:      str(m, "name"),
		Type:      ParseType(str(m, "type")),
		Block:     str(m, "block"),
		ParentSet: str(m, "parent_set"),
	}
	if id, err := uuid.Parse(str(m, "id")); err == nil {
		s.ID = id
	}
	if rd, err := time.Parse("2006-01-02", str(m, "release_date")); err == nil {
		s.ReleaseDate = rd
	}
	switch v := m["card_count"].(type) {
	case int:
		s.CardCount = v
	case float64:
		s.CardCount = int(v)
	}
	s.Digital, _ = m["digital"].(bool)
	s.FoilOnly, _ = m["foil_only"].(bool)
	s.NonfoilOnly, _ = m["nonfoil_only"].(bool)
	return s
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
