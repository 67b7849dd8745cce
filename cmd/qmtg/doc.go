// Command qmtg organizes Magic: The Gathering card collections. It tracks
// owned cards in inventories, builds browsable HTML binder views, and
// caches Scryfall card data locally so repeat runs stay fast and polite to
// the API.
package main
