package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shardmesh/shardmesh/pkg/api"
	"github.com/shardmesh/shardmesh/pkg/config"
	"github.com/shardmesh/shardmesh/pkg/contractclient"
	"github.com/shardmesh/shardmesh/pkg/keys"
	"github.com/shardmesh/shardmesh/pkg/log"
	"github.com/shardmesh/shardmesh/pkg/snapstore"
)

var (
	configPath string
	dataDir    string
	logLevel   string
	logJSON    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "node",
	Short: "Run a validator or storage node",
	RunE:  runNode,
}

func init() {
	rootCmd.Flags().String("api-addr", "", "address the HTTP API listens on")
	rootCmd.Flags().String("public-api-url", "", "URL this node advertises for its API")
	rootCmd.Flags().String("external-ip", "", "external IP address this node advertises")
	rootCmd.Flags().Int("p2p-port", 0, "P2P listen port")
	rootCmd.Flags().String("boot-node", "", "bootstrap peer multiaddr")
	rootCmd.Flags().String("seed-phrase", "", "mnemonic this node derives its keypair from")
	rootCmd.Flags().String("node-id", "", "storage node id; omit to run as the cluster's validator")
	rootCmd.Flags().String("contract-mock-url", "", "base URL of the contract mock")

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "data/storage", "directory for the snapshot store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs in JSON format")
	cobra.OnInitialize(initLogging)
}

func initLogging() {
	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})
}

func runNode(cmd *cobra.Command, args []string) error {
	nodeCfg, err := config.LoadNodeConfig(cmd)
	if err != nil {
		return fmt.Errorf("load node config: %w", err)
	}
	if err := nodeCfg.Validate(); err != nil {
		return fmt.Errorf("node config: %w", err)
	}

	storageCfg, err := config.LoadStorageConfig(cmd)
	if err != nil {
		return fmt.Errorf("load storage config: %w", err)
	}

	sk, pk, err := keys.DeriveKeys(nodeCfg.SeedPhrase)
	if err != nil {
		return fmt.Errorf("derive keys: %w", err)
	}

	snapCfg := storageCfg.StorageNodeSnapstoreConfig()
	if nodeCfg.IsValidator() {
		snapCfg = storageCfg.ValidatorSnapstoreConfig()
	}
	store, err := snapstore.Open(dataDir, snapCfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	contract := contractclient.New(nodeCfg.ContractMockURL)

	srv, err := api.NewServer(nodeCfg, storageCfg, store, contract, sk, pk)
	if err != nil {
		return fmt.Errorf("construct api server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	role := "storage node " + nodeCfg.NodeID
	if nodeCfg.IsValidator() {
		role = "validator"
	}
	log.Logger.Info().Str("role", role).Str("addr", nodeCfg.APIAddr).Str("pubkey", keys.PublicKeyHex(pk)).Msg("node starting")

	return srv.Start(ctx)
}
