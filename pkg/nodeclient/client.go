package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/shardmesh/shardmesh/pkg/apierr"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// Client talks to one storage/validator node's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client against baseURL (e.g. "http://127.0.0.1:3000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Info fetches the node's peer table from GET /info.
func (c *Client) Info(ctx context.Context) (types.InfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/info", nil)
	if err != nil {
		return types.InfoResponse{}, fmt.Errorf("nodeclient: info: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return types.InfoResponse{}, fmt.Errorf("nodeclient: info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return types.InfoResponse{}, fmt.Errorf("nodeclient: info: status %d", resp.StatusCode)
	}
	var out types.InfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.InfoResponse{}, fmt.Errorf("nodeclient: info: decode: %w", err)
	}
	return out, nil
}

// GetShard fetches the raw shard bytes for clusterID from GET
// /clusters/{cluster_id}.
func (c *Client) GetShard(ctx context.Context, clusterID types.ClusterID) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/clusters/"+clusterID.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("nodeclient: get shard: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nodeclient: get shard: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("nodeclient: get shard: %s: %w", clusterID, apierr.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("nodeclient: get shard: status %d: %s", resp.StatusCode, data)
	}
	return io.ReadAll(resp.Body)
}

// Upload posts msg to POST /clusters/{cluster_id} as a multipart "file"
// part, per spec §6's wire contract.
func (c *Client) Upload(ctx context.Context, clusterID types.ClusterID, msg types.UploadMessage) error {
	encoded, err := types.EncodeUploadMessage(msg)
	if err != nil {
		return fmt.Errorf("nodeclient: upload: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "upload.bin")
	if err != nil {
		return fmt.Errorf("nodeclient: upload: %w", err)
	}
	if _, err := part.Write(encoded); err != nil {
		return fmt.Errorf("nodeclient: upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("nodeclient: upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/clusters/"+clusterID.String(), &body)
	if err != nil {
		return fmt.Errorf("nodeclient: upload: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nodeclient: upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("nodeclient: upload: status %d: %s", resp.StatusCode, data)
	}
	return nil
}
