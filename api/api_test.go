package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Akhil-2310/arkanon/registry"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/Akhil-2310/arkanon/signal"
	"github.com/Akhil-2310/arkanon/storage"
	"github.com/Akhil-2310/arkanon/storage/nullifier"
	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"
)

var alice = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func newTestServer(t *testing.T) *httptest.Server {
	database := metadb.NewTest(t)
	store := storage.New(database)
	proofs := semaphore.NewMockService()
	reg := registry.New(store, proofs, nil)
	validator := signal.New(reg, store, nullifier.NewKVStore(database), proofs, nil)

	a := &API{registry: reg, validator: validator}
	a.initRouter()
	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(c *qt.C, srv *httptest.Server, method, path string, body, out any) int {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		c.Assert(err, qt.IsNil)
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reqBody)
	c.Assert(err, qt.IsNil)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	if out != nil && resp.StatusCode == http.StatusOK {
		c.Assert(json.Unmarshal(data, out), qt.IsNil, qt.Commentf("body: %s", data))
	}
	return resp.StatusCode
}

func apiErrorCode(c *qt.C, srv *httptest.Server, method, path string, body any) int {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		c.Assert(err, qt.IsNil)
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reqBody)
	c.Assert(err, qt.IsNil)
	resp, err := http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	defer func() { _ = resp.Body.Close() }()
	apiErr := struct {
		Code int `json:"code"`
	}{}
	c.Assert(json.NewDecoder(resp.Body).Decode(&apiErr), qt.IsNil)
	return apiErr.Code
}

func TestPing(t *testing.T) {
	c := qt.New(t)
	srv := newTestServer(t)
	c.Assert(doRequest(c, srv, http.MethodGet, PingEndpoint, nil, nil), qt.Equals, http.StatusOK)
}

func TestGroupEndpoints(t *testing.T) {
	c := qt.New(t)
	srv := newTestServer(t)

	// create
	record := &types.GroupRecord{}
	status := doRequest(c, srv, http.MethodPost, GroupsEndpoint, &CreateGroupRequest{
		Name:    "zk-Builders",
		Creator: alice,
	}, record)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(record.RegistryID, qt.Equals, uint64(0))
	c.Assert(record.Name, qt.Equals, "zk-Builders")

	// metadata is stored verbatim, an empty name included
	unnamed := &types.GroupRecord{}
	status = doRequest(c, srv, http.MethodPost, GroupsEndpoint, &CreateGroupRequest{Creator: alice}, unnamed)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(unnamed.RegistryID, qt.Equals, uint64(1))
	c.Assert(unnamed.Name, qt.Equals, "")

	// fetch
	got := &types.GroupRecord{}
	status = doRequest(c, srv, http.MethodGet, "/groups/0", nil, got)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(got.ExternalGroupID, qt.Equals, record.ExternalGroupID)

	// unknown ids are a 404 at the HTTP layer
	c.Assert(apiErrorCode(c, srv, http.MethodGet, "/groups/42", nil),
		qt.Equals, ErrGroupNotFound.Code)
	c.Assert(apiErrorCode(c, srv, http.MethodGet, "/groups/notanumber", nil),
		qt.Equals, ErrMalformedGroupID.Code)

	// list
	list := &GroupList{}
	status = doRequest(c, srv, http.MethodGet, GroupsEndpoint, nil, list)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(list.Groups, qt.HasLen, 2)
}

func TestMemberEndpoints(t *testing.T) {
	c := qt.New(t)
	srv := newTestServer(t)

	record := &types.GroupRecord{}
	status := doRequest(c, srv, http.MethodPost, GroupsEndpoint, &CreateGroupRequest{
		Name:    "zk-Builders",
		Creator: alice,
	}, record)
	c.Assert(status, qt.Equals, http.StatusOK)

	join := &JoinRequest{
		Commitment: (*types.BigInt)(big.NewInt(100)),
		Member:     alice,
	}
	status = doRequest(c, srv, http.MethodPost, "/groups/0/members", join, nil)
	c.Assert(status, qt.Equals, http.StatusOK)

	// re-joining is a conflict
	c.Assert(apiErrorCode(c, srv, http.MethodPost, "/groups/0/members", join),
		qt.Equals, ErrAlreadyJoined.Code)
	// unknown group
	c.Assert(apiErrorCode(c, srv, http.MethodPost, "/groups/42/members", join),
		qt.Equals, ErrGroupNotFound.Code)
	// missing commitment
	c.Assert(apiErrorCode(c, srv, http.MethodPost, "/groups/0/members", &JoinRequest{Member: alice}),
		qt.Equals, ErrMalformedBody.Code)

	// join status
	membership := &MembershipResponse{}
	status = doRequest(c, srv, http.MethodGet, fmt.Sprintf("/groups/0/members/%s", alice), nil, membership)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(membership.Joined, qt.IsTrue)

	membership = &MembershipResponse{}
	status = doRequest(c, srv, http.MethodGet,
		"/groups/0/members/0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", nil, membership)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(membership.Joined, qt.IsFalse)
}

func TestSignalEndpoints(t *testing.T) {
	c := qt.New(t)
	srv := newTestServer(t)

	record := &types.GroupRecord{}
	status := doRequest(c, srv, http.MethodPost, GroupsEndpoint, &CreateGroupRequest{
		Name:    "zk-Builders",
		Creator: alice,
	}, record)
	c.Assert(status, qt.Equals, http.StatusOK)

	req := &SignalRequest{
		Message:   types.HexBytes("gm"),
		Scope:     types.HexBytes("daily-checkin"),
		Nullifier: (*types.BigInt)(big.NewInt(1)),
	}
	receipt := &types.Signal{}
	status = doRequest(c, srv, http.MethodPost, "/groups/0/signals", req, receipt)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(receipt.SignalHash.MathBigInt().Cmp(semaphore.HashToField([]byte("gm"))), qt.Equals, 0)

	// resubmitting the same nullifier is a conflict
	c.Assert(apiErrorCode(c, srv, http.MethodPost, "/groups/0/signals", req),
		qt.Equals, ErrNullifierUsed.Code)
	// unknown group
	c.Assert(apiErrorCode(c, srv, http.MethodPost, "/groups/42/signals", req),
		qt.Equals, ErrGroupNotFound.Code)
	// missing nullifier
	c.Assert(apiErrorCode(c, srv, http.MethodPost, "/groups/0/signals", &SignalRequest{}),
		qt.Equals, ErrMalformedBody.Code)

	list := &SignalList{}
	status = doRequest(c, srv, http.MethodGet, "/groups/0/signals", nil, list)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(list.Signals, qt.HasLen, 1)
}
