package eventstream

import (
	"context"
	"strings"
	"sync"
)

// record is one appended payload; partitionKey is kept for introspection
// (tests assert per-partition FIFO) even though a single append-ordered log
// already gives every partition key FIFO order as a subset of total order.
type record struct {
	partitionKey string
	payload      []byte
}

type log struct {
	mu       sync.Mutex
	cond     *sync.Cond
	entries  []record
	finished bool
}

func newLog() *log {
	l := &log{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// MemStore is the in-memory reference implementation of Store: an
// append-only slice per (scope, stream), guarded by a mutex, with waiters
// woken via sync.Cond. It is the default backend for tests and for running
// all four sorting-center workers plus the trouble reporter as goroutines
// within a single process.
type MemStore struct {
	mu   sync.Mutex
	logs map[string]*log
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{logs: make(map[string]*log)}
}

func key(scope, stream string) string { return scope + "/" + stream }

func scopePrefix(scope string) string { return scope + "/" }

func (m *MemStore) logFor(scope, stream string) *log {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(scope, stream)
	l, ok := m.logs[k]
	if !ok {
		l = newLog()
		m.logs[k] = l
	}
	return l
}

// CreateScopeAndStream ensures the named log exists, idempotently.
func (m *MemStore) CreateScopeAndStream(scope, stream string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(scope, stream)
	if _, ok := m.logs[k]; ok {
		return false, nil
	}
	m.logs[k] = newLog()
	return true, nil
}

// Publish appends payload to the stream and wakes any blocked readers.
func (m *MemStore) Publish(scope, stream, partitionKey string, payload []byte) error {
	l := m.logFor(scope, stream)
	l.mu.Lock()
	l.entries = append(l.entries, record{partitionKey: partitionKey, payload: payload})
	l.cond.Broadcast()
	l.mu.Unlock()
	return nil
}

// Finish marks a stream as having no further events, letting pending
// Iterate calls observe end-of-stream once they catch up. Production
// backends would infer this from the underlying system reporting zero
// unread bytes after a read timeout; the in-memory backend is told directly
// since it never has unread bytes it hasn't already delivered.
func (m *MemStore) Finish(scope, stream string) {
	l := m.logFor(scope, stream)
	l.mu.Lock()
	l.finished = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

// DeleteScope drops every log whose key belongs to scope. A later
// CreateScopeAndStream for the same scope/stream starts a fresh, empty log.
func (m *MemStore) DeleteScope(scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := scopePrefix(scope)
	for k := range m.logs {
		if strings.HasPrefix(k, prefix) {
			delete(m.logs, k)
		}
	}
	return nil
}

// Iterate yields every payload appended to stream, in append order, then
// closes its output channel. See Store.Iterate for the wait_for_events
// contract.
func (m *MemStore) Iterate(ctx context.Context, scope, stream string, waitForEvents bool) (<-chan []byte, <-chan error) {
	l := m.logFor(scope, stream)
	out := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)
		cursor := 0
		haveRead := false
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				l.mu.Lock()
				l.cond.Broadcast()
				l.mu.Unlock()
			case <-stop:
			}
		}()

		for {
			l.mu.Lock()
			for cursor >= len(l.entries) {
				if ctx.Err() != nil {
					l.mu.Unlock()
					return
				}
				// spec §5 READ_TIMEOUT rule: end once no unread bytes remain
				// and either an event has already been read, or the caller
				// never asked to wait for the first one.
				if haveRead || !waitForEvents {
					l.mu.Unlock()
					return
				}
				// still waiting for a first event; finished is an escape
				// valve so a stream that is told it will never have events
				// doesn't block forever.
				if l.finished {
					l.mu.Unlock()
					return
				}
				l.cond.Wait()
			}
			payload := l.entries[cursor].payload
			cursor++
			l.mu.Unlock()

			haveRead = true
			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errc
}
