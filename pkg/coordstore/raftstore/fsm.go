package raftstore

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/cuemby/parceltrack/pkg/coordstore"
	"github.com/hashicorp/raft"
)

// command is one coordstore write, serialized into the Raft log. Reads never
// go through Raft: every node applies the same command sequence, so a local
// read against the FSM's own state is linearizable with respect to that
// node's own committed writes, which is all the four sorting-center workers
// need (spec §4.3, §5 — no multi-key transaction required).
type command struct {
	Op     string `json:"op"`
	Key    string `json:"key"`
	Member string `json:"member,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Score  int64  `json:"score,omitempty"`
}

const (
	opZAdd = "zadd"
	opZRem = "zrem"
	opHSet = "hset"
	opHDel = "hdel"
	opSAdd = "sadd"
	opSRem = "srem"
	opDel  = "del"
)

// applyResult carries SAdd's wasNew bool back through raft.Apply's
// interface{} return, mirroring the teacher FSM's pattern of returning the
// underlying store call's result (or error) from Apply.
type applyResult struct {
	wasNew bool
	err    error
}

// fsm implements raft.FSM over the same three-shape state memstore.MemStore
// holds (sorted set / hash / set), keyed by command.Key. It is grounded on
// manager.WarrenFSM's Apply/Snapshot/Restore structure, generalized from a
// cluster-resource command set to the coordination-primitive command set
// spec §4.3 names.
type fsm struct {
	mu sync.RWMutex

	zsets map[string]map[string]int64
	hsets map[string]map[string]string
	sets  map[string]map[string]bool
}

func newFSM() *fsm {
	return &fsm{
		zsets: make(map[string]map[string]int64),
		hsets: make(map[string]map[string]string),
		sets:  make(map[string]map[string]bool),
	}
}

func (f *fsm) Apply(log *raft.Log) interface{} {
	var cmd command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return applyResult{err: fmt.Errorf("unmarshal command: %w", err)}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd.Op {
	case opZAdd:
		z, ok := f.zsets[cmd.Key]
		if !ok {
			z = make(map[string]int64)
			f.zsets[cmd.Key] = z
		}
		z[cmd.Member] = cmd.Score
		return applyResult{}

	case opZRem:
		if z, ok := f.zsets[cmd.Key]; ok {
			delete(z, cmd.Member)
		}
		return applyResult{}

	case opHSet:
		h, ok := f.hsets[cmd.Key]
		if !ok {
			h = make(map[string]string)
			f.hsets[cmd.Key] = h
		}
		h[cmd.Field] = cmd.Value
		return applyResult{}

	case opHDel:
		if h, ok := f.hsets[cmd.Key]; ok {
			delete(h, cmd.Field)
		}
		return applyResult{}

	case opSAdd:
		s, ok := f.sets[cmd.Key]
		if !ok {
			s = make(map[string]bool)
			f.sets[cmd.Key] = s
		}
		if s[cmd.Member] {
			return applyResult{wasNew: false}
		}
		s[cmd.Member] = true
		return applyResult{wasNew: true}

	case opSRem:
		if s, ok := f.sets[cmd.Key]; ok {
			delete(s, cmd.Member)
		}
		return applyResult{}

	case opDel:
		delete(f.zsets, cmd.Key)
		delete(f.hsets, cmd.Key)
		delete(f.sets, cmd.Key)
		return applyResult{}

	default:
		return applyResult{err: fmt.Errorf("unknown coordstore command: %s", cmd.Op)}
	}
}

func (f *fsm) zRangeByScoreWithScores(key string, min, max int64) []coordstore.ScoredMember {
	f.mu.RLock()
	defer f.mu.RUnlock()
	z := f.zsets[key]
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
	return result
}

func (f *fsm) hGet(key, field string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	h, ok := f.hsets[key]
	if !ok {
		return "", false
	}
	v, ok := h[field]
	return v, ok
}

func (f *fsm) sMembers(key string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := f.sets[key]
	result := make([]string, 0, len(s))
	for member := range s {
		result = append(result, member)
	}
	sort.Strings(result)
	return result
}

// snapshot is the point-in-time state raft.FSM.Snapshot hands to the
// snapshot store, and raft.FSM.Restore reloads from on join/restart.
type snapshot struct {
	ZSets map[string]map[string]int64  `json:"zsets"`
	HSets map[string]map[string]string `json:"hsets"`
	Sets  map[string]map[string]bool   `json:"sets"`
}

func (f *fsm) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snap := &snapshot{
		ZSets: make(map[string]map[string]int64, len(f.zsets)),
		HSets: make(map[string]map[string]string, len(f.hsets)),
		Sets:  make(map[string]map[string]bool, len(f.sets)),
	}
	// Copy the inner maps too: Persist runs concurrently with later Apply
	// calls, which mutate the live inner maps in place.
	for k, v := range f.zsets {
		m := make(map[string]int64, len(v))
		for mk, mv := range v {
			m[mk] = mv
		}
		snap.ZSets[k] = m
	}
	for k, v := range f.hsets {
		m := make(map[string]string, len(v))
		for mk, mv := range v {
			m[mk] = mv
		}
		snap.HSets[k] = m
	}
	for k, v := range f.sets {
		m := make(map[string]bool, len(v))
		for mk, mv := range v {
			m[mk] = mv
		}
		snap.Sets[k] = m
	}
	return snap, nil
}

func (f *fsm) Restore(rc io.ReadCloser) error {
	defer rc.Close()
	var snap snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return fmt.Errorf("decode coordstore snapshot: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zsets = snap.ZSets
	f.hsets = snap.HSets
	f.sets = snap.Sets
	if f.zsets == nil {
		f.zsets = make(map[string]map[string]int64)
	}
	if f.hsets == nil {
		f.hsets = make(map[string]map[string]string)
	}
	if f.sets == nil {
		f.sets = make(map[string]map[string]bool)
	}
	return nil
}

func (s *snapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := json.NewEncoder(sink).Encode(s); err != nil {
			return err
		}
		return sink.Close()
	}()
	if err != nil {
		sink.Cancel()
	}
	return err
}

func (s *snapshot) Release() {}
