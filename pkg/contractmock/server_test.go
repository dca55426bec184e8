package contractmock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shardmesh/shardmesh/pkg/shard"
	"github.com/shardmesh/shardmesh/pkg/types"
)

func testServer(t *testing.T) (*httptest.Server, *Registry) {
	t.Helper()
	reg, err := Open(filepath.Join(t.TempDir(), "state.bin"))
	require.NoError(t, err)
	srv := NewServer("", reg, zerolog.Nop())
	return httptest.NewServer(srv.router()), reg
}

func TestServerInfoReturnsOK(t *testing.T) {
	ts, _ := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/info")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerCreateThenGetCluster(t *testing.T) {
	ts, _ := testServer(t)
	defer ts.Close()

	reqBody, err := json.Marshal(types.ClusterCreateRequest{
		OwnerPK: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Commit:  shard.Commitment{},
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/clusters", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created types.ClusterCreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	getResp, err := http.Get(ts.URL + "/clusters/" + created.ClusterID.String())
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var info types.ClusterInfoResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&info))
	require.Equal(t, uint64(0), info.Index)
}

func TestServerGetUnknownClusterNotFound(t *testing.T) {
	ts, _ := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/clusters/" + types.NewClusterID([5]uint32{1, 1, 1, 1, 1}).String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerGetInvalidClusterIDBadRequest(t *testing.T) {
	ts, _ := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/clusters/not-hex")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
