// Package eventstream abstracts the append-only, partition-ordered event
// log each sorting-center pipeline reads from and the trouble reporter tails.
// It is the capability set spec §4.1 asks for, not a binding to any real
// streaming system (Pravega, Kafka, ...) — those bindings are explicitly out
// of scope; this package's Store is the reference realization used by the
// whole of parceltrack.
package eventstream

import "context"

// Store is the append-only per-key partitioned log parceltrack requires.
// All records published with the same partition key are totally ordered;
// no ordering is guaranteed across different partition keys.
type Store interface {
	// CreateScopeAndStream idempotently ensures scope/name exists, reporting
	// whether this call created it.
	CreateScopeAndStream(scope, name string) (created bool, err error)

	// Publish appends one record to stream, ordered with every other record
	// sharing partitionKey.
	Publish(scope, stream, partitionKey string, payload []byte) error

	// Iterate returns a channel that yields every unread payload from
	// stream in FIFO-per-partition-key order, then closes. A fresh call
	// always creates a fresh reader position (spec §4.1: "restartable only
	// via a fresh reader"); there is no resumable cursor.
	//
	// When waitForEvents is true, Iterate blocks until at least one event
	// has been read before it will signal end-of-stream; once any event has
	// been read, end-of-stream is signaled as soon as the stream is drained,
	// matching the READ_TIMEOUT drain-probing rule in spec §5.
	Iterate(ctx context.Context, scope, stream string, waitForEvents bool) (<-chan []byte, <-chan error)

	// Finish marks stream as having no further events, letting any blocked
	// wait_for_events reader observe end-of-stream once it catches up.
	// Production callers use this to signal a reader waiting on a stream
	// that may legitimately never receive a first event (the trouble
	// stream on a run with nothing to report).
	Finish(scope, stream string)

	// DeleteScope discards every stream under scope, matching
	// pravega_util.py's purge_scope (stream_manager.deleteScope). Streams
	// recreate lazily via CreateScopeAndStream on first use afterward.
	DeleteScope(scope string) error
}
