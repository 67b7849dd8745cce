package actions

import (
	"context"
	"fmt"

	"qmtg/internal/card"
	"qmtg/internal/mtgset"
)

// SearchCards looks up each named card, returning the matches in order.
func (e *Env) SearchCards(ctx context.Context, fuzzy bool, setCode string, names ...string) ([]card.Card, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("need at least one card name to look up")
	}
	var results []card.Card
	for _, name := range names {
		c, err := e.API.CardByName(ctx, name, fuzzy, setCode)
		if err != nil {
			return nil, fmt.Errorf("looking up %q: %w", name, err)
		}
		results = append(results, c)
	}
	return results, nil
}

// ShowCard fetches the full record of one printing.
func (e *Env) ShowCard(ctx context.Context, setCode, number, language string) (card.Card, error) {
	return e.API.CardByNum(ctx, setCode, number, language)
}

// FetchCardImage downloads a card image into the local image cache and
// returns where it can be found.
func (e *Env) FetchCardImage(ctx context.Context, setCode, number, language, sizeName string, back bool) (int, error) {
	size, err := card.SizeFromString(sizeName)
	if err != nil {
		return 0, err
	}
	data, err := e.API.CardImage(ctx, setCode, number, language, size, back)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// ShowSet fetches the record of one card set.
func (e *Env) ShowSet(ctx context.Context, code string) (mtgset.Set, error) {
	return e.API.GetSet(ctx, code)
}

// Catalog fetches one of Scryfall's static catalogs.
func (e *Env) Catalog(ctx context.Context, catalogType string) ([]string, error) {
	return e.API.Catalog(ctx, catalogType)
}
