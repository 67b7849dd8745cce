// Package scryfall is a caching client for the Scryfall card API. Every
// card, set, and image lookup checks a local cache first; only misses go
// out over the network, rate limited to stay inside Scryfall's request
// guidelines. Responses are persisted between runs so repeat invocations
// make as few requests as possible.
package scryfall
