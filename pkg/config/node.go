package config

import "fmt"

// PeerConfig is one storage node entry in a validator's static peer table,
// loaded only from a config file: spec's CLI surface is limited to
// --boot-node's single multiaddr, so a full peer table has no flag of its
// own, but it isn't out of scope for a config file the way transport-level
// discovery is.
type PeerConfig struct {
	NodeID string `yaml:"node_id"`
	APIURL string `yaml:"api_url"`
}

// NodeConfig is the identity and network surface of one storage/validator
// process, matching spec §6's `node` CLI flags one-to-one, plus two
// config-file-only fields (Peers, ValidatorPubKeyHex) used for internal
// shard distribution.
type NodeConfig struct {
	APIAddr         string `yaml:"api_addr"`          // --api-addr
	PublicAPIURL    string `yaml:"public_api_url"`    // --public-api-url
	ExternalIP      string `yaml:"external_ip"`       // --external-ip
	P2PPort         int    `yaml:"p2p_port"`          // --p2p-port
	BootNode        string `yaml:"boot_node"`         // --boot-node
	SeedPhrase      string `yaml:"seed_phrase"`       // --seed-phrase
	NodeID          string `yaml:"node_id"`           // --node-id; empty selects validator mode
	ContractMockURL string `yaml:"contract_mock_url"` // --contract-mock-url

	// Peers is the validator's static table of storage nodes to fan
	// uploaded shards out to. Config-file only; full peer discovery over
	// --boot-node's libp2p-style multiaddr is out of scope.
	Peers []PeerConfig `yaml:"peers"`

	// ValidatorPubKeyHex is the validator's public key, hex-encoded via
	// pkg/keys.PublicKeyHex, that a storage node checks relayed shards
	// against. Config-file only.
	ValidatorPubKeyHex string `yaml:"validator_pub_key"`
}

// IsValidator reports whether this node runs in validator mode: the
// role assigned whenever --node-id (and its NODE_ID env fallback) is
// left unset, per spec §6.
func (c NodeConfig) IsValidator() bool {
	return c.NodeID == ""
}

// Validate checks the fields an API server or P2P listener cannot start
// without.
func (c NodeConfig) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("config: node: api-addr is required")
	}
	if c.ContractMockURL == "" {
		return fmt.Errorf("config: node: contract-mock-url is required")
	}
	if c.SeedPhrase == "" {
		return fmt.Errorf("config: node: seed-phrase is required")
	}
	return nil
}

// DefaultNodeConfig returns the zero-config defaults used when no flag,
// environment variable, or config file sets a value.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		APIAddr:      "127.0.0.1:3000",
		PublicAPIURL: "http://127.0.0.1:3000",
		ExternalIP:   "127.0.0.1",
		P2PPort:      4000,
	}
}
