package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shardmesh/shardmesh/pkg/codec"
	"github.com/shardmesh/shardmesh/pkg/config"
	"github.com/shardmesh/shardmesh/pkg/contractclient"
	"github.com/shardmesh/shardmesh/pkg/keys"
	"github.com/shardmesh/shardmesh/pkg/shard"
	"github.com/shardmesh/shardmesh/pkg/snapstore"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// fakeContract is a minimal stand-in for the contract mock, serving a
// single pre-registered cluster record.
func fakeContract(t *testing.T, clusterID types.ClusterID, info types.ClusterInfoResponse) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/clusters/"+clusterID.String(), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(info))
	})
	return httptest.NewServer(mux)
}

func uploadBody(t *testing.T, msg types.UploadMessage) (*bytes.Buffer, string) {
	t.Helper()
	encoded, err := types.EncodeUploadMessage(msg)
	require.NoError(t, err)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(encoded)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestValidatorAcceptsValidUpload(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	sk, pk, err := keys.DeriveKeys("owner mnemonic")
	require.NoError(t, err)

	data := []byte("hello cluster")
	matrix, err := codec.EncodeMatrix(data, storageCfg.N, storageCfg.M)
	require.NoError(t, err)
	pd, err := shard.ComputeCommitment(matrix, storageCfg.LogBlowupFactor())
	require.NoError(t, err)

	clusterID := types.NewClusterID([5]uint32{1, 2, 3, 4, 5})
	contractSrv := fakeContract(t, clusterID, types.ClusterInfoResponse{
		Index:   0,
		OwnerPK: keys.MarshalPublicKey(pk),
		Commit:  pd.Commitment,
	})
	defer contractSrv.Close()

	store, err := snapstore.Open(t.TempDir(), storageCfg.ValidatorSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	srv, err := NewServer(config.NodeConfig{APIAddr: "127.0.0.1:0"}, storageCfg, store, contractclient.New(contractSrv.URL), sk, pk)
	require.NoError(t, err)

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	sig, err := keys.Sign(sk, data)
	require.NoError(t, err)
	body, contentType := uploadBody(t, types.UploadMessage{Data: data, Signature: sig})

	req, err := http.NewRequest(http.MethodPost, apiSrv.URL+"/clusters/"+clusterID.String(), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	getResp, err := http.Get(apiSrv.URL + "/clusters/" + clusterID.String())
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	stored, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	require.Equal(t, codec.EncodeElementsWire(matrix.Values), stored)
}

func TestValidatorRejectsBadSignature(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	sk, pk, err := keys.DeriveKeys("owner mnemonic 2")
	require.NoError(t, err)
	_, attackerPK, err := keys.DeriveKeys("attacker mnemonic")
	require.NoError(t, err)

	data := []byte("hello cluster")
	matrix, err := codec.EncodeMatrix(data, storageCfg.N, storageCfg.M)
	require.NoError(t, err)
	pd, err := shard.ComputeCommitment(matrix, storageCfg.LogBlowupFactor())
	require.NoError(t, err)

	clusterID := types.NewClusterID([5]uint32{9, 9, 9, 9, 9})
	contractSrv := fakeContract(t, clusterID, types.ClusterInfoResponse{
		Index:   0,
		OwnerPK: keys.MarshalPublicKey(attackerPK), // mismatched owner key
		Commit:  pd.Commitment,
	})
	defer contractSrv.Close()

	store, err := snapstore.Open(t.TempDir(), storageCfg.ValidatorSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	srv, err := NewServer(config.NodeConfig{APIAddr: "127.0.0.1:0"}, storageCfg, store, contractclient.New(contractSrv.URL), sk, pk)
	require.NoError(t, err)

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	sig, err := keys.Sign(sk, data)
	require.NoError(t, err)
	body, contentType := uploadBody(t, types.UploadMessage{Data: data, Signature: sig})

	req, err := http.NewRequest(http.MethodPost, apiSrv.URL+"/clusters/"+clusterID.String(), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStorageNodeAcceptsRelayedShard(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	validatorSK, validatorPK, err := keys.DeriveKeys("validator mnemonic")
	require.NoError(t, err)

	shardValues := []byte{1, 0, 0, 0, 2, 0, 0, 0} // two little-endian field words
	sig, err := keys.Sign(validatorSK, shardValues)
	require.NoError(t, err)

	store, err := snapstore.Open(t.TempDir(), storageCfg.StorageNodeSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	node := config.NodeConfig{
		APIAddr:            "127.0.0.1:0",
		NodeID:             "3",
		ValidatorPubKeyHex: keys.PublicKeyHex(validatorPK),
	}
	srv, err := NewServer(node, storageCfg, store, contractclient.New("http://unused.invalid"), validatorSK, validatorPK)
	require.NoError(t, err)
	require.False(t, node.IsValidator())

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	clusterID := types.NewClusterID([5]uint32{7, 7, 7, 7, 7})
	body, contentType := uploadBody(t, types.UploadMessage{Data: shardValues, Signature: sig})

	req, err := http.NewRequest(http.MethodPost, apiSrv.URL+"/clusters/"+clusterID.String(), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestStorageNodeRejectsUnsignedShard(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	sk, pk, err := keys.DeriveKeys("node mnemonic")
	require.NoError(t, err)

	store, err := snapstore.Open(t.TempDir(), storageCfg.StorageNodeSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	node := config.NodeConfig{APIAddr: "127.0.0.1:0", NodeID: "3"} // no ValidatorPubKeyHex configured
	srv, err := NewServer(node, storageCfg, store, contractclient.New("http://unused.invalid"), sk, pk)
	require.NoError(t, err)

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	clusterID := types.NewClusterID([5]uint32{1, 1, 1, 1, 1})
	body, contentType := uploadBody(t, types.UploadMessage{Data: []byte{0, 0, 0, 0, 0, 0, 0, 0}})

	req, err := http.NewRequest(http.MethodPost, apiSrv.URL+"/clusters/"+clusterID.String(), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetUnknownClusterReturnsNotFound(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	sk, pk, err := keys.DeriveKeys("not found mnemonic")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	contractSrv := httptest.NewServer(mux)
	defer contractSrv.Close()

	store, err := snapstore.Open(t.TempDir(), storageCfg.ValidatorSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	srv, err := NewServer(config.NodeConfig{APIAddr: "127.0.0.1:0"}, storageCfg, store, contractclient.New(contractSrv.URL), sk, pk)
	require.NoError(t, err)

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	resp, err := http.Get(apiSrv.URL + "/clusters/" + types.NewClusterID([5]uint32{1, 1, 1, 1, 1}).String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFanOutShardsAddressesPeerByNodeID(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	sk, pk, err := keys.DeriveKeys("validator for fanout")
	require.NoError(t, err)

	data := []byte("cluster bytes for fanout test")
	matrix, err := codec.EncodeMatrix(data, storageCfg.N, storageCfg.M)
	require.NoError(t, err)
	pd, err := shard.ComputeCommitment(matrix, storageCfg.LogBlowupFactor())
	require.NoError(t, err)
	require.True(t, len(pd.Shards) > 2)

	var mu sync.Mutex
	received := map[string][]byte{}
	peerMux := http.NewServeMux()
	peerMux.HandleFunc("/clusters/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		raw, err := io.ReadAll(file)
		require.NoError(t, err)
		msg, err := types.DecodeUploadMessage(raw)
		require.NoError(t, err)
		mu.Lock()
		received[r.URL.Path] = msg.Data
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	peerSrv := httptest.NewServer(peerMux)
	defer peerSrv.Close()

	clusterID := types.NewClusterID([5]uint32{4, 4, 4, 4, 4})
	contractSrv := fakeContract(t, clusterID, types.ClusterInfoResponse{
		Index:   0,
		OwnerPK: keys.MarshalPublicKey(pk),
		Commit:  pd.Commitment,
	})
	defer contractSrv.Close()

	store, err := snapstore.Open(t.TempDir(), storageCfg.ValidatorSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	node := config.NodeConfig{
		APIAddr: "127.0.0.1:0",
		Peers:   []config.PeerConfig{{NodeID: "1", APIURL: peerSrv.URL}},
	}
	srv, err := NewServer(node, storageCfg, store, contractclient.New(contractSrv.URL), sk, pk)
	require.NoError(t, err)

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	sig, err := keys.Sign(sk, data)
	require.NoError(t, err)
	body, contentType := uploadBody(t, types.UploadMessage{Data: data, Signature: sig})

	req, err := http.NewRequest(http.MethodPost, apiSrv.URL+"/clusters/"+clusterID.String(), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	gotShard := received["/clusters/"+clusterID.String()]
	require.Equal(t, codec.EncodeElementsWire(pd.Shards[1]), gotShard)
}

func TestHandleInfoReturnsConfiguredPeers(t *testing.T) {
	storageCfg := config.StorageConfig{N: 4, M: 2, B: 1, NumClusters: 4}
	sk, pk, err := keys.DeriveKeys("info mnemonic")
	require.NoError(t, err)

	store, err := snapstore.Open(t.TempDir(), storageCfg.ValidatorSnapstoreConfig())
	require.NoError(t, err)
	defer store.Close()

	node := config.NodeConfig{
		APIAddr: "127.0.0.1:0",
		Peers:   []config.PeerConfig{{NodeID: "1", APIURL: "http://127.0.0.1:3001"}},
	}
	srv, err := NewServer(node, storageCfg, store, contractclient.New("http://unused.invalid"), sk, pk)
	require.NoError(t, err)

	apiSrv := httptest.NewServer(srv.Router())
	defer apiSrv.Close()

	resp, err := http.Get(apiSrv.URL + "/info")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info types.InfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Contains(t, info.Peers, "1")
	require.Equal(t, "http://127.0.0.1:3001", info.Peers["1"].APIURL)
}
