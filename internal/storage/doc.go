// Package storage provides the path-addressed cache and store layer that sits
// between QMTG and both the Scryfall API and the on-disk inventory/binder
// records.
//
// PathCache is an in-memory tree keyed by slash-delimited paths. FileCache
// extends it to keep large binary payloads (card images) as files on disk,
// tracking only location and size metadata in the tree. Store binds a
// PathCache to a single snapshot file that is rewritten after every mutation,
// with batch/commit to defer persistence across multi-step updates.
// ObjectStore adds a type registry so domain objects round-trip through the
// tree transparently.
//
// The layer trades strict consistency for availability on purpose: a snapshot
// that fails to load starts the store empty, a snapshot that fails to save is
// logged and skipped, and a blob file that goes missing behind the cache's
// back is treated as a miss and its metadata purged so the next lookup simply
// refetches.
package storage
