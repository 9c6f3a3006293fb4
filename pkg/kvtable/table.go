// Package kvtable implements the keyed record store spec §4.2 requires:
// get/put/delete per key, no transactions, last-writer-wins. BoltStore
// backs package-attributes and package-events with a bbolt bucket per
// table, following the same bucket-per-entity pattern as the teacher
// repo's storage.BoltStore.
package kvtable

// Store is the capability set the pipeline needs from the KV layer.
// A missing key is reported as ErrNotFound, not a malformed-value error;
// callers that read-modify-write treat ErrNotFound as an empty record,
// per spec §7.
type Store interface {
	Get(table, key string) ([]byte, error)
	Put(table, key string, value []byte) error
	Delete(table, key string) error
	Close() error
}
