package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional on-disk shape: a plain YAML file with no
// apiVersion/kind envelope, scoped to this module's two config structs.
type fileConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Node    NodeConfig    `yaml:"node"`
}

// LoadStorageConfig reads --config (or SHARDMESH_CONFIG) if set, then
// applies upper-snake-case environment fallbacks (STORAGE_N, STORAGE_M,
// STORAGE_B, NUM_CLUSTERS), then any cobra flag the caller explicitly
// set, in that order. Missing input at every layer falls back to
// DevStorageConfig.
func LoadStorageConfig(cmd *cobra.Command) (StorageConfig, error) {
	cfg := DevStorageConfig()

	if fc, ok, err := loadFile(cmd); err != nil {
		return StorageConfig{}, err
	} else if ok {
		cfg = fc.Storage
	}

	applyEnvInt(&cfg.N, "STORAGE_N")
	applyEnvInt(&cfg.M, "STORAGE_M")
	applyEnvInt(&cfg.B, "STORAGE_B")
	applyEnvInt(&cfg.NumClusters, "NUM_CLUSTERS")

	if cmd != nil {
		applyFlagInt(cmd, &cfg.N, "n")
		applyFlagInt(cmd, &cfg.M, "m")
		applyFlagInt(cmd, &cfg.B, "b")
		applyFlagInt(cmd, &cfg.NumClusters, "num-clusters")
	}

	if err := cfg.Validate(); err != nil {
		return StorageConfig{}, err
	}
	return cfg, nil
}

// LoadNodeConfig layers a config file, then upper-snake-case environment
// variables named after each CLI flag (API_ADDR, PUBLIC_API_URL,
// EXTERNAL_IP, P2P_PORT, BOOT_NODE, SEED_PHRASE, NODE_ID,
// CONTRACT_MOCK_URL), then cmd's own flags, per spec §6's "Environment
// fallbacks".
func LoadNodeConfig(cmd *cobra.Command) (NodeConfig, error) {
	cfg := DefaultNodeConfig()

	if fc, ok, err := loadFile(cmd); err != nil {
		return NodeConfig{}, err
	} else if ok {
		cfg = fc.Node
	}

	applyEnvString(&cfg.APIAddr, "API_ADDR")
	applyEnvString(&cfg.PublicAPIURL, "PUBLIC_API_URL")
	applyEnvString(&cfg.ExternalIP, "EXTERNAL_IP")
	applyEnvInt(&cfg.P2PPort, "P2P_PORT")
	applyEnvString(&cfg.BootNode, "BOOT_NODE")
	applyEnvString(&cfg.SeedPhrase, "SEED_PHRASE")
	applyEnvString(&cfg.NodeID, "NODE_ID")
	applyEnvString(&cfg.ContractMockURL, "CONTRACT_MOCK_URL")

	if cmd != nil {
		applyFlagString(cmd, &cfg.APIAddr, "api-addr")
		applyFlagString(cmd, &cfg.PublicAPIURL, "public-api-url")
		applyFlagString(cmd, &cfg.ExternalIP, "external-ip")
		applyFlagInt(cmd, &cfg.P2PPort, "p2p-port")
		applyFlagString(cmd, &cfg.BootNode, "boot-node")
		applyFlagString(cmd, &cfg.SeedPhrase, "seed-phrase")
		applyFlagString(cmd, &cfg.NodeID, "node-id")
		applyFlagString(cmd, &cfg.ContractMockURL, "contract-mock-url")
	}

	return cfg, nil
}

func loadFile(cmd *cobra.Command) (fileConfig, bool, error) {
	path := os.Getenv("SHARDMESH_CONFIG")
	if cmd != nil {
		if v, err := cmd.Flags().GetString("config"); err == nil && v != "" {
			path = v
		}
	}
	if path == "" {
		return fileConfig{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, false, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc, true, nil
}

func applyEnvString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func applyEnvInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func applyFlagString(cmd *cobra.Command, dst *string, name string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if v, err := cmd.Flags().GetString(name); err == nil {
		*dst = v
	}
}

func applyFlagInt(cmd *cobra.Command, dst *int, name string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if v, err := cmd.Flags().GetInt(name); err == nil {
		*dst = v
	}
}
