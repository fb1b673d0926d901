// Package storage keeps the signed-in session on disk.
//
// The CLI stores a single record, the logged-in session, in a Badger
// database under the user's data directory. Writes are synced, and the
// directory lock keeps a second ofchat-cli process from opening the same
// database; OpenBadger reports that case as ErrLocked. Value log space is
// reclaimed when the store is closed, since the CLI never runs long enough
// for periodic collection.
package storage
