package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shardmesh/shardmesh/pkg/contractmock"
	"github.com/shardmesh/shardmesh/pkg/log"
)

var (
	listenAddr string
	statePath  string
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
	Use:   "contractmock",
	Short: "In-memory stand-in for the cluster-registration contract",
	RunE:  runServe,
}

func init() {
	rootCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:9000", "HTTP listen address")
	rootCmd.Flags().StringVar(&statePath, "state", "data/contract_mock_state.bin", "path to the persisted registry state")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs in JSON format")
	cobra.OnInitialize(initLogging)
}

func initLogging() {
	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})
}

func runServe(cmd *cobra.Command, args []string) error {
	registry, err := contractmock.Open(statePath)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}

	srv := contractmock.NewServer(listenAddr, registry, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Logger.Info().Str("addr", listenAddr).Str("state", statePath).Msg("contract mock listening")
	return srv.Start(ctx)
}
