package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shardmesh/shardmesh/pkg/apierr"
	"github.com/shardmesh/shardmesh/pkg/codec"
	"github.com/shardmesh/shardmesh/pkg/config"
	"github.com/shardmesh/shardmesh/pkg/contractclient"
	"github.com/shardmesh/shardmesh/pkg/keys"
	"github.com/shardmesh/shardmesh/pkg/log"
	"github.com/shardmesh/shardmesh/pkg/metrics"
	"github.com/shardmesh/shardmesh/pkg/nodeclient"
	"github.com/shardmesh/shardmesh/pkg/shard"
	"github.com/shardmesh/shardmesh/pkg/snapstore"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// Server is the REST API server one storage/validator node runs. Its
// behavior on POST /clusters/{cluster_id} depends on its role: a
// validator recomputes and checks the full commitment and fans shards
// out; a storage node checks the relaying validator's signature and
// stores its one shard.
type Server struct {
	node     config.NodeConfig
	storage  config.StorageConfig
	store    *snapstore.Store
	contract *contractclient.Client

	sk keys.PrivateKey
	pk keys.PublicKey

	validatorPK keys.PublicKey
	hasValPK    bool

	peersMu sync.RWMutex
	peers   map[string]types.Peer
	health  *peerMonitor

	logger zerolog.Logger
	http   *http.Server
}

// NewServer constructs a Server. sk/pk is this node's own keypair
// (derived from --seed-phrase); for a storage node, node.ValidatorPubKeyHex
// (if set) is parsed as the key shard deliveries must be signed by.
func NewServer(node config.NodeConfig, storage config.StorageConfig, store *snapstore.Store, contract *contractclient.Client, sk keys.PrivateKey, pk keys.PublicKey) (*Server, error) {
	s := &Server{
		node:     node,
		storage:  storage,
		store:    store,
		contract: contract,
		sk:       sk,
		pk:       pk,
		peers:    make(map[string]types.Peer),
		health:   newPeerMonitor(),
		logger:   log.WithComponent("api"),
	}

	if node.ValidatorPubKeyHex != "" {
		valPK, err := keys.ParsePublicKeyHex(node.ValidatorPubKeyHex)
		if err != nil {
			return nil, fmt.Errorf("api: parse validator_pub_key: %w", err)
		}
		s.validatorPK = valPK
		s.hasValPK = true
	}

	for _, p := range node.Peers {
		s.peers[p.NodeID] = types.Peer{PeerID: p.NodeID, APIURL: p.APIURL}
	}

	return s, nil
}

// Router builds the chi mux serving this node's three routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/info", s.handleInfo)
	r.Get("/clusters/{cluster_id}", s.handleGetCluster)
	r.Post("/clusters/{cluster_id}", s.handlePostCluster)
	return r
}

// Start begins serving on node.APIAddr. It blocks until the server stops
// or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:    s.node.APIAddr,
		Handler: s.Router(),
	}

	s.peersMu.RLock()
	peers := make(map[string]types.Peer, len(s.peers))
	for k, v := range s.peers {
		peers[k] = v
	}
	s.peersMu.RUnlock()
	go s.health.run(ctx, peers)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.node.APIAddr).Msg("api server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// instrument assigns each request a request id (for correlating this
// node's logs with the error a caller sees back) and records its
// route/status/duration.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		w.Header().Set("X-Request-Id", reqID)

		timer := metrics.NewTimer()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.APIRequestsTotal.WithLabelValues(route, fmt.Sprintf("%d", rec.status)).Inc()
		timer.ObserveDurationVec(metrics.APIRequestDuration, route)
		s.logger.Debug().Str("request_id", reqID).Str("route", route).Int("status", rec.status).Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.peersMu.RLock()
	peers := make(map[string]types.Peer, len(s.peers))
	for k, v := range s.peers {
		peers[k] = v
	}
	s.peersMu.RUnlock()
	writeJSON(w, http.StatusOK, types.InfoResponse{Peers: peers})
}

func (s *Server) handleGetCluster(w http.ResponseWriter, r *http.Request) {
	clusterID, err := types.ParseClusterID(chi.URLParam(r, "cluster_id"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", apierr.ErrInvalidInput, err))
		return
	}

	timer := metrics.NewTimer()
	info, err := s.contract.GetClusterInfo(r.Context(), clusterID)
	if err != nil {
		if errors.Is(err, contractclient.ErrNotFound) {
			writeError(w, fmt.Errorf("%w: %s", apierr.ErrNotFound, clusterID))
			return
		}
		writeError(w, fmt.Errorf("%w: contract lookup: %v", apierr.ErrStorageIO, err))
		return
	}

	index := int(info.Index)
	if !s.node.IsValidator() {
		index = s.clusterSlotIndex(clusterID)
	}
	data, err := s.store.Read(s.snapshotForRead(), index)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", apierr.ErrNotFound, err))
		return
	}
	metrics.DownloadsTotal.WithLabelValues("ok").Inc()
	timer.ObserveDuration(metrics.DownloadDuration)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) snapshotForRead() uint64 {
	_, pending := s.store.SnapshotRange()
	return pending
}

func (s *Server) handlePostCluster(w http.ResponseWriter, r *http.Request) {
	clusterID, err := types.ParseClusterID(chi.URLParam(r, "cluster_id"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", apierr.ErrInvalidInput, err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: multipart: %v", apierr.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", apierr.ErrInvalidInput, err))
		return
	}

	msg, err := types.DecodeUploadMessage(raw)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", apierr.ErrInvalidInput, err))
		return
	}

	timer := metrics.NewTimer()
	if s.node.IsValidator() {
		err = s.acceptAsValidator(r.Context(), clusterID, msg)
	} else {
		err = s.acceptAsStorageNode(clusterID, msg)
	}
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		writeError(w, err)
		return
	}
	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	timer.ObserveDuration(metrics.UploadDuration)

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// acceptAsValidator verifies the owner's signature and the recomputed
// commitment against the contract's record, persists the full payload,
// and best-effort fans the resulting shards out to the configured peer
// storage nodes.
func (s *Server) acceptAsValidator(ctx context.Context, clusterID types.ClusterID, msg types.UploadMessage) error {
	info, err := s.contract.GetClusterInfo(ctx, clusterID)
	if err != nil {
		if errors.Is(err, contractclient.ErrNotFound) {
			return fmt.Errorf("%w: %s", apierr.ErrNotFound, clusterID)
		}
		return fmt.Errorf("%w: contract lookup: %v", apierr.ErrStorageIO, err)
	}

	ownerPK, err := keys.UnmarshalPublicKey(info.OwnerPK)
	if err != nil {
		return fmt.Errorf("%w: owner key: %v", apierr.ErrInvalidInput, err)
	}
	ok, err := keys.Verify(ownerPK, msg.Data, msg.Signature)
	if err != nil || !ok {
		return fmt.Errorf("%w", apierr.ErrSignatureInvalid)
	}

	matrix, err := codec.EncodeMatrix(msg.Data, s.storage.N, s.storage.M)
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInvalidInput, err)
	}

	pd, err := shard.ComputeCommitment(matrix, s.storage.LogBlowupFactor())
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInvalidInput, err)
	}
	metrics.CommitmentsComputedTotal.Inc()

	if pd.Commitment.CanonicalHash() != info.Commit.CanonicalHash() {
		return fmt.Errorf("%w", apierr.ErrCommitmentMismatch)
	}

	// The validator's own snapstore holds the canonical 4-byte-per-element
	// wire encoding of the full payload matrix (PayloadBlobSize), not the
	// client's raw, densely-packed upload bytes, so its size matches
	// ValidatorSnapstoreConfig regardless of how close the original file
	// was to the matrix's 30-bits-per-element capacity.
	if err := s.store.Write(int(info.Index), codec.EncodeElementsWire(matrix.Values)); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrStorageIO, err)
	}

	s.fanOutShards(clusterID, pd)
	return nil
}

// fanOutShards relays each of the commitment's shards to the peer
// responsible for it, re-signed under this validator's own key so each
// storage node can authenticate the relay. A peer's NodeID is its shard
// index into pd.Shards: this is the addressing convention a downloader
// later relies on to know which node to ask for which subcoset index, so
// it must be deterministic rather than an artifact of map iteration
// order. Best-effort: a peer that is unreachable is logged and skipped,
// matching spec §7's "peer unreachable" taxonomy entry being the
// caller's (here: the eventual downloader's) problem to handle, not the
// upload's.
func (s *Server) fanOutShards(clusterID types.ClusterID, pd *shard.ProverData) {
	s.peersMu.RLock()
	peers := make([]types.Peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.peersMu.RUnlock()

	for _, peer := range peers {
		if !s.health.healthy(peer.PeerID) {
			s.logger.Warn().Str("peer", peer.PeerID).Msg("peer marked unhealthy, skipping relay")
			continue
		}
		index, err := strconv.Atoi(peer.PeerID)
		if err != nil || index < 0 || index >= len(pd.Shards) {
			s.logger.Error().Str("peer", peer.PeerID).Msg("peer has no valid shard index, skipping relay")
			continue
		}
		shardBytes := codec.EncodeElementsWire(pd.Shards[index])
		sig, err := keys.Sign(s.sk, shardBytes)
		if err != nil {
			s.logger.Error().Err(err).Str("peer", peer.PeerID).Msg("sign shard for relay")
			continue
		}
		go func(peer types.Peer, shardBytes []byte, sig types.Signature) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			client := nodeclient.New(peer.APIURL)
			if err := client.Upload(ctx, clusterID, types.UploadMessage{Data: shardBytes, Signature: sig}); err != nil {
				s.logger.Warn().Err(err).Str("peer", peer.PeerID).Msg("shard relay failed")
			}
		}(peer, shardBytes, sig)
	}
}

// acceptAsStorageNode verifies the relaying validator's signature over
// the shard bytes and stores them.
func (s *Server) acceptAsStorageNode(clusterID types.ClusterID, msg types.UploadMessage) error {
	if !s.hasValPK {
		return fmt.Errorf("%w: no validator_pub_key configured", apierr.ErrRoleMismatch)
	}
	ok, err := keys.Verify(s.validatorPK, msg.Data, msg.Signature)
	if err != nil || !ok {
		return fmt.Errorf("%w", apierr.ErrSignatureInvalid)
	}
	if len(msg.Data) != s.storage.ShardBlobSize() {
		return fmt.Errorf("%w: shard size %d, want %d", apierr.ErrInvalidInput, len(msg.Data), s.storage.ShardBlobSize())
	}

	index := s.clusterSlotIndex(clusterID)
	if err := s.store.Write(index, msg.Data); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrStorageIO, err)
	}
	return nil
}

// clusterSlotIndex derives a storage node's local slot index for
// clusterID. A storage node has no contract-side "cluster index" record
// the way a validator does, so it folds the cluster id's own bytes into
// its configured slot-table capacity instead.
func (s *Server) clusterSlotIndex(clusterID types.ClusterID) int {
	b := clusterID.Bytes()
	var acc uint64
	for _, v := range b {
		acc = acc*131 + uint64(v)
	}
	return int(acc % uint64(s.storage.NumClusters))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apierr.StatusCode(err), map[string]string{"error": err.Error()})
}
