// Package card defines Magic card data as it flows between the Scryfall
// client, inventories, and binder rendering. A Card is a set printing made
// of one or more faces; an OwnedCard adds the physical attributes that
// distinguish copies in a collection.
package card
