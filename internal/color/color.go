package color

import (
	"strconv"
	"strings"
)

// Color is one of the five mana colors, identified by its cost symbol.
type Color struct {
	Name   string
	Symbol string
}

var (
	White = Color{Name: "WHITE", Symbol: "W"}
	Blue  = Color{Name: "BLUE", Symbol: "U"}
	Black = Color{Name: "BLACK", Symbol: "B"}
	Red   = Color{Name: "RED", Symbol: "R"}
	Green = Color{Name: "GREEN", Symbol: "G"}
)

// All lists the colors in canonical WUBRG order.
var All = []Color{White, Blue, Black, Red, Green}

func (c Color) String() string {
	return c.Name
}

// CostContains reports whether the given Scryfall-style cost string requires
// or allows paying c, including hybrid forms like {W/U} and {2/W}.
func CostContains(cost string, c Color) bool {
	if strings.Contains(cost, "{"+c.Symbol+"}") {
		return true
	}
	if strings.Contains(cost, "{"+c.Symbol+"/") {
		return true
	}
	return strings.Contains(cost, "/"+c.Symbol+"}")
}

// ExtractLoyalty returns every color mentioned by the cost or rules text, in
// WUBRG order.
func ExtractLoyalty(text string) []Color {
	var found []Color
	for _, c := range All {
		if CostContains(text, c) {
			found = append(found, c)
		}
	}
	return found
}

// Union merges color lists, preserving WUBRG order and dropping duplicates.
func Union(lists ...[]Color) []Color {
	seen := make(map[string]bool, len(All))
	for _, list := range lists {
		for _, c := range list {
			seen[c.Symbol] = true
		}
	}
	var merged []Color
	for _, c := range All {
		if seen[c.Symbol] {
			merged = append(merged, c)
		}
	}
	return merged
}

// CostCMC computes the converted mana cost of a cost string. Unknown or
// variable symbols (X and friends) count as zero; hybrid symbols count the
// generic half when present, otherwise one.
func CostCMC(cost string) int {
	cmc := 0
	inSymbol := false
	var partial strings.Builder
	for _, r := range cost {
		switch {
		case inSymbol && r == '}':
			inSymbol = false
			cmc += symbolCMC(partial.String())
			partial.Reset()
		case inSymbol:
			partial.WriteRune(r)
		case r == '{':
			inSymbol = true
		}
	}
	return cmc
}

func symbolCMC(sym string) int {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	switch sym {
	case "", "X", "Y", "Z":
		return 0
	}
	if n, err := strconv.Atoi(sym); err == nil {
		return n
	}
	if strings.HasPrefix(sym, "H") && len(sym) == 2 {
		// Half costs truncate, matching integer CMC semantics.
		return 0
	}
	if strings.Contains(sym, "/") {
		for _, part := range strings.Split(sym, "/") {
			if n, err := strconv.Atoi(part); err == nil {
				return n
			}
		}
	}
	return 1
}
