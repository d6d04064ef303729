// ──────────────────────────────────────────────────────────────────────────────
// ladderctl – concentrated-liquidity ladder CLI
//
// Root command: `ladderctl`
// Sub-routes:
//   plan          – compute a ladder's sub-positions offline, print as JSON
//   create-ladder – plan, validate, batch-mint on-chain
//   close         – decrease+collect a set of tracked positions (no burn)
//   swap          – route a received token balance back into the stablecoin
//
// Env vars:
//   LOG_LEVEL     – trace|debug|info|warn|error (default info)
//   CLLADDER_ENV  – selects config/<env>.yaml as an overlay on config/default.yaml
//
// Exit codes: 0 success, 2 invalid input, 3 insufficient balance,
// 4 pool missing, 5 simulation failed, 6 on-chain revert, 7 timeout.
// ──────────────────────────────────────────────────────────────────────────────
package main

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clladder/clladder/pkg/config"
	"github.com/clladder/clladder/pkg/utils"
)

var (
	logger = logrus.StandardLogger()
	once   sync.Once
	cfg    *config.Config
)

func initMiddleware(cmd *cobra.Command, _ []string) error {
	var err error
	once.Do(func() {
		_ = godotenv.Load()
		lvl := utils.EnvOrDefault("LOG_LEVEL", "info")
		l, e := logrus.ParseLevel(lvl)
		if e != nil {
			err = e
			return
		}
		logger.SetLevel(l)

		cfg, err = config.LoadFromEnv()
	})
	return err
}

func main() {
	root := &cobra.Command{
		Use:               "ladderctl",
		Short:             "construct, submit, and manage concentrated-liquidity ladders",
		PersistentPreRunE: initMiddleware,
	}

	root.AddCommand(planCmd())
	root.AddCommand(createLadderCmd())
	root.AddCommand(closeCmd())
	root.AddCommand(swapCmd())

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
