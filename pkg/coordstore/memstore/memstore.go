// Package memstore is a single-process, mutex-guarded implementation of
// coordstore.Store. It is the default backend for tests and for the
// single-binary "run everything as goroutines" deployment mode; see
// coordstore/raftstore for the replicated backend used when the four
// sorting-center workers run as separate processes.
//
// There is no off-the-shelf Go sorted-set/hash/set data structure in the
// example pack or the standard library that matches spec §4.3's exact
// capability set (zadd/zrem/zrange-by-score, hset/hget/hdel,
// sadd/srem/smembers) at once, so this is hand-rolled: plain Go maps for
// the hash and set, and a member-to-score map for the sorted set whose
// matching entries are collected and sorted on each range query. At the
// package-count scale this system runs at (spec's simulator defaults to
// tens of packages per run), an O(n log n) sort per delayed-package check
// is not a bottleneck.
package memstore

import (
	"sort"
	"sync"

	"github.com/cuemby/parceltrack/pkg/coordstore"
)

type zsetEntry struct {
	member string
	score  int64
}

// MemStore implements coordstore.Store with one mutex guarding three maps.
type MemStore struct {
	mu sync.Mutex

	zsets map[string]map[string]int64 // key -> member -> score
	hsets map[string]map[string]string
	sets  map[string]map[string]bool
}

// New creates an empty in-memory coordination store.
func New() *MemStore {
	return &MemStore{
		zsets: make(map[string]map[string]int64),
		hsets: make(map[string]map[string]string),
		sets:  make(map[string]map[string]bool),
	}
}

func (m *MemStore) ZAdd(key string, score int64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zsets[key]
	if !ok {
		z = make(map[string]int64)
		m.zsets[key] = z
	}
	z[member] = score
	return nil
}

func (m *MemStore) ZRem(key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zsets[key]
	if !ok {
		return nil
	}
	for _, mem := range members {
		delete(z, mem)
	}
	return nil
}

func (m *MemStore) ZRangeByScoreWithScores(key string, min, max int64) ([]coordstore.ScoredMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z := m.zsets[key]
	result := make([]coordstore.ScoredMember, 0, len(z))
	for member, score := range z {
		if score >= min && score <= max {
			result = append(result, coordstore.ScoredMember{Member: member, Score: score})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score < result[j].Score
		}
		return result[i].Member < result[j].Member
	})
	return result, nil
}

func (m *MemStore) HSet(key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hsets[key]
	if !ok {
		h = make(map[string]string)
		m.hsets[key] = h
	}
	h[field] = value
	return nil
}

func (m *MemStore) HGet(key, field string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hsets[key]
	if !ok {
		return "", false, nil
	}
	v, ok := h[field]
	return v, ok, nil
}

func (m *MemStore) HDel(key, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hsets[key]
	if !ok {
		return nil
	}
	delete(h, field)
	return nil
}

func (m *MemStore) SAdd(key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[key]
	if !ok {
		s = make(map[string]bool)
		m.sets[key] = s
	}
	if s[member] {
		return false, nil
	}
	s[member] = true
	return true, nil
}

func (m *MemStore) SRem(key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[key]
	if !ok {
		return nil
	}
	delete(s, member)
	return nil
}

func (m *MemStore) SMembers(key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sets[key]
	result := make([]string, 0, len(s))
	for member := range s {
		result = append(result, member)
	}
	sort.Strings(result)
	return result, nil
}

func (m *MemStore) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.zsets, key)
	delete(m.hsets, key)
	delete(m.sets, key)
	return nil
}
