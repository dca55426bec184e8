package config

import "testing"

func TestDevStorageConfigValidates(t *testing.T) {
	if err := DevStorageConfig().Validate(); err != nil {
		t.Fatalf("dev config should validate: %v", err)
	}
}

func TestValidateRejectsNonPowerOfTwo(t *testing.T) {
	cfg := DevStorageConfig()
	cfg.N = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-power-of-two n")
	}
}

func TestValidateRejectsZeroNumClusters(t *testing.T) {
	cfg := DevStorageConfig()
	cfg.NumClusters = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero num_clusters")
	}
}

func TestBlobSizes(t *testing.T) {
	cfg := StorageConfig{N: 8, M: 2, B: 1, NumClusters: 1}
	if got, want := cfg.PayloadBlobSize(), 8*2*4; got != want {
		t.Errorf("PayloadBlobSize() = %d, want %d", got, want)
	}
	if got, want := cfg.ShardBlobSize(), 2*4; got != want {
		t.Errorf("ShardBlobSize() = %d, want %d", got, want)
	}
	if got, want := cfg.MaxPayloadBytes(), 8*2*30/8; got != want {
		t.Errorf("MaxPayloadBytes() = %d, want %d", got, want)
	}
}

func TestNodeConfigIsValidatorWhenNodeIDEmpty(t *testing.T) {
	cfg := DefaultNodeConfig()
	if !cfg.IsValidator() {
		t.Error("expected validator mode with empty node id")
	}
	cfg.NodeID = "3"
	if cfg.IsValidator() {
		t.Error("expected storage-node mode once node id is set")
	}
}
