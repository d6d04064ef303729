package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/clladder/clladder/core"
	"github.com/clladder/clladder/internal/metrics"
	"github.com/clladder/clladder/internal/rpcclient"
	"github.com/clladder/clladder/pkg/config"
)

// serverState bundles the collaborators every handler needs. Chain
// clients are dialed lazily and cached for the life of the process —
// a read-only preview service has no reason to pay a fresh dial per
// request.
type serverState struct {
	cfg       *config.Config
	registry  *core.ChainRegistry
	collector *metrics.Collector
	logger    *logrus.Logger

	mu      sync.Mutex
	clients map[int64]chainBundle
}

type chainBundle struct {
	client core.ChainClient
	entry  core.ChainEntry
	reader *core.PoolReader
}

func newServerState(cfg *config.Config, registry *core.ChainRegistry, collector *metrics.Collector, logger *logrus.Logger) *serverState {
	return &serverState{
		cfg:       cfg,
		registry:  registry,
		collector: collector,
		logger:    logger,
		clients:   make(map[int64]chainBundle),
	}
}

func (s *serverState) bundleFor(ctx context.Context, chainID int64) (chainBundle, error) {
	s.mu.Lock()
	if b, ok := s.clients[chainID]; ok {
		s.mu.Unlock()
		return b, nil
	}
	s.mu.Unlock()

	entry, ok := s.registry.Lookup(chainID)
	if !ok {
		return chainBundle{}, fmt.Errorf("ladderserver: no registry entry for chain id %d", chainID)
	}

	rpcURL := entry.DefaultRPC
	if chainID == s.cfg.Chain.ID && s.cfg.Chain.RPCURL != "" {
		rpcURL = s.cfg.Chain.RPCURL
	}

	client, err := rpcclient.Dial(ctx, rpcclient.Config{RPCURL: rpcURL, ProxyURL: s.cfg.Chain.ProxyURL}, s.logger)
	if err != nil {
		return chainBundle{}, err
	}

	b := chainBundle{client: client, entry: entry, reader: core.NewPoolReader(client)}
	s.mu.Lock()
	s.clients[chainID] = b
	s.mu.Unlock()
	return b, nil
}
