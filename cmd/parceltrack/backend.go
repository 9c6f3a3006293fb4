package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/parceltrack/pkg/coordstore"
	"github.com/cuemby/parceltrack/pkg/coordstore/memstore"
	"github.com/cuemby/parceltrack/pkg/coordstore/raftstore"
	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/spf13/cobra"
)

// backend bundles the three stores every parceltrack command needs, built
// from the shared --uri/--scope/--coord flags. eventstream has only an
// in-process MemStore (spec §1 Out of scope excludes a real stream
// binding), so streams only coordinate workers sharing one process; kvtable
// and coordstore can each be made durable across process restarts.
type backend struct {
	streams eventstream.Store
	kv      kvtable.Store
	coord   coordstore.Store
	scope   string

	closers []func() error
}

func (b *backend) Close() error {
	var firstErr error
	for _, c := range b.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().String("uri", "", "data directory backing the KV table and coordstore (empty uses in-memory stores)")
	cmd.Flags().String("scope", "default", "namespace for event streams (KV tables and coordination keys are shared across scopes)")
	cmd.Flags().String("coord", "mem", "coordination store backend: mem or raft")
	cmd.Flags().String("raft-node-id", "node1", "raft node id, used when --coord=raft")
	cmd.Flags().String("raft-bind-addr", "127.0.0.1:17000", "raft bind address, used when --coord=raft")
}

// sharedStreams, sharedKV and sharedCoord, when non-nil, replace the store
// newBackend would otherwise open, so that several commands in one process
// could reuse the same in-memory backing. Nothing in this package sets them,
// so every command opens its own stores; run.go instead shares its single
// backend across its goroutines.
var (
	sharedStreams eventstream.Store
	sharedKV      kvtable.Store
	sharedCoord   coordstore.Store
)

func newBackend(cmd *cobra.Command) (*backend, error) {
	uri, _ := cmd.Flags().GetString("uri")
	scope, _ := cmd.Flags().GetString("scope")
	coordKind, _ := cmd.Flags().GetString("coord")

	b := &backend{scope: scope}

	if sharedStreams != nil {
		b.streams = sharedStreams
	} else {
		b.streams = eventstream.NewMemStore()
	}

	if sharedKV != nil {
		b.kv = sharedKV
	} else if uri == "" {
		b.kv = kvtable.NewMemStore()
	} else {
		if err := os.MkdirAll(uri, 0755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", uri, err)
		}
		kv, err := kvtable.NewBoltStore(uri, "parceltrack.db")
		if err != nil {
			return nil, err
		}
		b.kv = kv
		b.closers = append(b.closers, kv.Close)
	}

	if sharedCoord != nil {
		b.coord = sharedCoord
	} else {
		switch coordKind {
		case "mem", "":
			b.coord = memstore.New()
		case "raft":
			if uri == "" {
				return nil, fmt.Errorf("--coord=raft requires --uri for raft log storage")
			}
			nodeID, _ := cmd.Flags().GetString("raft-node-id")
			bindAddr, _ := cmd.Flags().GetString("raft-bind-addr")
			dataDir := filepath.Join(uri, "raft", nodeID)
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return nil, fmt.Errorf("create raft data directory %s: %w", dataDir, err)
			}
			store, err := raftstore.Bootstrap(raftstore.Config{
				NodeID:   nodeID,
				BindAddr: bindAddr,
				DataDir:  dataDir,
			})
			if err != nil {
				return nil, fmt.Errorf("bootstrap raft coordstore: %w", err)
			}
			b.coord = store
		default:
			return nil, fmt.Errorf("unknown --coord backend %q (want mem or raft)", coordKind)
		}
	}

	return b, nil
}
