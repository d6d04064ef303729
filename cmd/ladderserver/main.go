// ──────────────────────────────────────────────────────────────────────────────
// ladderserver – read-only preview/status HTTP service
//
// Routes:
//   GET  /healthz                        – liveness probe
//   GET  /metrics                        – prometheus scrape endpoint
//   GET  /chains                         – registered chain ids and labels
//   GET  /chains/{chainId}/pools/{pool}  – slot0-derived state for one pool
//   POST /plan                           – compute a ladder preview, no I/O
//
// Env vars:
//   LOG_LEVEL     – trace|debug|info|warn|error (default info)
//   CLLADDER_ENV  – selects config/<env>.yaml as an overlay on config/default.yaml
// ──────────────────────────────────────────────────────────────────────────────
package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/clladder/clladder/internal/metrics"
	"github.com/clladder/clladder/pkg/config"
	"github.com/clladder/clladder/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.StandardLogger()
	lvl, err := logrus.ParseLevel(utils.EnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		logger.Fatalf("ladderserver: bad LOG_LEVEL: %v", err)
	}
	logger.SetLevel(lvl)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatalf("ladderserver: config: %v", err)
	}

	registry, err := cfg.ChainRegistry()
	if err != nil {
		logger.Fatalf("ladderserver: chain registry: %v", err)
	}

	collector := metrics.New()
	state := newServerState(cfg, registry, collector, logger)

	addr := cfg.Metrics.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:8090"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(state),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.WithField("addr", addr).Info("ladderserver listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ladderserver: %v", err)
	}
}
