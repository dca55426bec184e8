package contractclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shardmesh/shardmesh/pkg/shard"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// Client talks to one contract-mock instance over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client against baseURL (e.g. "http://127.0.0.1:9000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Ping checks the contract mock's GET /info.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/info", nil)
	if err != nil {
		return fmt.Errorf("contractclient: ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contractclient: ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("contractclient: ping: status %d", resp.StatusCode)
	}
	return nil
}

// CreateCluster registers ownerPK and commit, returning the assigned
// cluster id.
func (c *Client) CreateCluster(ctx context.Context, ownerPK []byte, commit shard.Commitment) (types.ClusterID, error) {
	body, err := json.Marshal(types.ClusterCreateRequest{OwnerPK: ownerPK, Commit: commit})
	if err != nil {
		return types.ClusterID{}, fmt.Errorf("contractclient: create cluster: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/clusters", bytes.NewReader(body))
	if err != nil {
		return types.ClusterID{}, fmt.Errorf("contractclient: create cluster: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return types.ClusterID{}, fmt.Errorf("contractclient: create cluster: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return types.ClusterID{}, fmt.Errorf("contractclient: create cluster: status %d", resp.StatusCode)
	}

	var out types.ClusterCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.ClusterID{}, fmt.Errorf("contractclient: create cluster: decode: %w", err)
	}
	return out.ClusterID, nil
}

// GetClusterInfo looks up id's registered record.
func (c *Client) GetClusterInfo(ctx context.Context, id types.ClusterID) (types.ClusterInfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/clusters/"+id.String(), nil)
	if err != nil {
		return types.ClusterInfoResponse{}, fmt.Errorf("contractclient: get cluster info: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return types.ClusterInfoResponse{}, fmt.Errorf("contractclient: get cluster info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return types.ClusterInfoResponse{}, fmt.Errorf("contractclient: get cluster info: %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return types.ClusterInfoResponse{}, fmt.Errorf("contractclient: get cluster info: status %d: %s", resp.StatusCode, data)
	}

	var out types.ClusterInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.ClusterInfoResponse{}, fmt.Errorf("contractclient: get cluster info: decode: %w", err)
	}
	return out, nil
}
