package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethkit/gethsup/framework/faucet"
	"github.com/ethkit/gethsup/framework/geth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gethsup",
		Short:        "Supervise a go-ethereum node on a private network",
		SilenceUsage: true,
	}
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var (
		cfgPath string
		dataDir string
		port    int
		rpc     bool
		mining  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a full node and run until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg := geth.DefaultConfig()
			if cfgPath != "" {
				cfg, err = geth.LoadConfig(cfgPath)
				if err != nil {
					return err
				}
			}
			cfg.Logger = log
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if cfg.DataDir == "" {
				cfg.DataDir, err = defaultDataDir()
				if err != nil {
					return err
				}
			}

			// The full node mines into the local faucet account and keeps a
			// fixed peer identity derived from its key.
			acct, err := faucet.NewAccount(faucet.TestKey(), log)
			if err != nil {
				return err
			}
			if cfg.Etherbase == "" {
				cfg.Etherbase = acct.Address().Hex()
			}

			ctx := cmd.Context()
			node, err := geth.NewNodeBuilder().WithConfig(cfg).Build(ctx)
			if err != nil {
				return err
			}

			sh := geth.NewShutdownHandler(log)
			sh.StopOnShutdown(node)

			err = node.Start(ctx, geth.StartOpts{
				RPC:     rpc,
				Mining:  mining,
				NodeKey: acct.Key(),
				Port:    port,
			})
			if err != nil {
				return err
			}
			log.Info("full node running",
				zap.Int("peer_port", node.PeerPort()),
				zap.Int("rpc_port", node.RPCPort()),
				zap.String("etherbase", cfg.Etherbase))

			sh.Listen(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&dataDir, "datadir", "", "client data directory (default: user config dir)")
	cmd.Flags().IntVar(&port, "port", 30900, "peer listening port, 0 to allocate")
	cmd.Flags().BoolVar(&rpc, "rpc", false, "enable the RPC listener")
	cmd.Flags().BoolVar(&mining, "mining", true, "mine pending transactions")
	return cmd
}

func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "gethsup", "full_node"), nil
}
