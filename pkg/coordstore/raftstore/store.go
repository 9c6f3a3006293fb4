// Package raftstore is the replicated coordstore.Store backend, used when
// the four sorting-center workers (spec §1) run as separate processes
// instead of goroutines in one binary. Every write is proposed as a Raft log
// entry and applied to all nodes identically; every read is served from the
// local node's own FSM state. Grounded on the teacher repo's
// pkg/manager.Manager.Bootstrap/Join and pkg/manager.WarrenFSM, generalized
// from cluster-resource commands to the coordstore.Store primitive set.
package raftstore

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cuemby/parceltrack/pkg/coordstore"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// Config is the subset of raft wiring a coordstore node needs.
type Config struct {
	NodeID   string
	BindAddr string
	DataDir  string
}

// Store implements coordstore.Store on top of a Raft-replicated fsm.
type Store struct {
	raft *raft.Raft
	fsm  *fsm

	// applyTimeout bounds how long a write waits for the log entry to
	// commit before giving up; spec's workers run on a LAN/single-host
	// simulation so this is generous relative to manager.go's tuned
	// failover timeouts.
	applyTimeout time.Duration
}

// Bootstrap starts a brand-new single-node cluster at cfg, the entry point
// used by the first sorting-center worker a deployment brings up.
func Bootstrap(cfg Config) (*Store, error) {
	s, transport, err := newRaftNode(cfg)
	if err != nil {
		return nil, err
	}

	configuration := raft.Configuration{
		Servers: []raft.Server{
			{ID: raft.ServerID(cfg.NodeID), Address: transport.LocalAddr()},
		},
	}
	if err := s.raft.BootstrapCluster(configuration).Error(); err != nil {
		return nil, fmt.Errorf("bootstrap coordstore cluster: %w", err)
	}
	return s, nil
}

// Join starts a node at cfg without bootstrapping a cluster; it does not
// contact any leader or add itself as a voter. Unlike manager.go's Join
// (which calls a gRPC join RPC on the remote leader), this repo has no inter-process RPC surface for coordstore
// membership changes; joining an existing raftstore cluster is therefore
// done out-of-band by an operator calling AddVoter against the leader's
// *Store (see AddVoter below), not by this constructor alone.
func Join(cfg Config) (*Store, error) {
	s, _, err := newRaftNode(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newRaftNode(cfg Config) (*Store, *raft.NetworkTransport, error) {
	config := raft.DefaultConfig()
	config.LocalID = raft.ServerID(cfg.NodeID)

	// Same tuning as the teacher's Manager.Bootstrap: faster heartbeat and
	// election than hashicorp/raft's WAN-oriented defaults, appropriate for
	// sorting centers on one LAN or one host.
	config.HeartbeatTimeout = 500 * time.Millisecond
	config.ElectionTimeout = 500 * time.Millisecond
	config.CommitTimeout = 50 * time.Millisecond
	config.LeaderLeaseTimeout = 250 * time.Millisecond

	addr, err := net.ResolveTCPAddr("tcp", cfg.BindAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve coordstore bind address: %w", err)
	}
	transport, err := raft.NewTCPTransport(cfg.BindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("create coordstore transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(cfg.DataDir, 2, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("create coordstore snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "coordstore-log.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("create coordstore log store: %w", err)
	}
	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "coordstore-stable.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("create coordstore stable store: %w", err)
	}

	f := newFSM()
	r, err := raft.NewRaft(config, f, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, nil, fmt.Errorf("create coordstore raft node: %w", err)
	}

	return &Store{raft: r, fsm: f, applyTimeout: 5 * time.Second}, transport, nil
}

// AddVoter adds a remote node as a voting member; call this against the
// current leader's *Store from an operator tool, not automatically, since
// this repo has no membership-change RPC.
func (s *Store) AddVoter(nodeID, addr string) error {
	return s.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(addr), 0, 0).Error()
}

func (s *Store) apply(cmd command) (applyResult, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return applyResult{}, fmt.Errorf("marshal coordstore command: %w", err)
	}
	future := s.raft.Apply(data, s.applyTimeout)
	if err := future.Error(); err != nil {
		return applyResult{}, fmt.Errorf("apply coordstore command: %w", err)
	}
	res, ok := future.Response().(applyResult)
	if !ok {
		return applyResult{}, fmt.Errorf("unexpected apply response type %T", future.Response())
	}
	return res, res.err
}

func (s *Store) ZAdd(key string, score int64, member string) error {
	_, err := s.apply(command{Op: opZAdd, Key: key, Member: member, Score: score})
	return err
}

func (s *Store) ZRem(key string, members ...string) error {
	for _, m := range members {
		if _, err := s.apply(command{Op: opZRem, Key: key, Member: m}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ZRangeByScoreWithScores(key string, min, max int64) ([]coordstore.ScoredMember, error) {
	return s.fsm.zRangeByScoreWithScores(key, min, max), nil
}

func (s *Store) HSet(key, field, value string) error {
	_, err := s.apply(command{Op: opHSet, Key: key, Field: field, Value: value})
	return err
}

func (s *Store) HGet(key, field string) (string, bool, error) {
	v, ok := s.fsm.hGet(key, field)
	return v, ok, nil
}

func (s *Store) HDel(key, field string) error {
	_, err := s.apply(command{Op: opHDel, Key: key, Field: field})
	return err
}

func (s *Store) SAdd(key, member string) (bool, error) {
	res, err := s.apply(command{Op: opSAdd, Key: key, Member: member})
	if err != nil {
		return false, err
	}
	return res.wasNew, nil
}

func (s *Store) SRem(key, member string) error {
	_, err := s.apply(command{Op: opSRem, Key: key, Member: member})
	return err
}

func (s *Store) SMembers(key string) ([]string, error) {
	return s.fsm.sMembers(key), nil
}

func (s *Store) Del(key string) error {
	_, err := s.apply(command{Op: opDel, Key: key})
	return err
}

var _ coordstore.Store = (*Store)(nil)
