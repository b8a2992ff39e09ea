package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Akhil-2310/arkanon/registry"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
)

// urlRegistryID parses the groupId URL parameter as a registry id.
func urlRegistryID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, GroupURLParam), 10, 64)
}

// createGroup creates a new group
// POST /groups
func (a *API) createGroup(w http.ResponseWriter, r *http.Request) {
	req := &CreateGroupRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	record, err := a.registry.CreateGroup(req.Name, req.Description, req.ImageURL, req.Category, req.Creator)
	if err != nil {
		if errors.Is(err, semaphore.ErrUnavailable) {
			ErrProofServiceUnavailable.WithErr(err).Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, record)
}

// listGroups returns all group records
// GET /groups
func (a *API) listGroups(w http.ResponseWriter, r *http.Request) {
	records, err := a.registry.ListGroups()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &GroupList{Groups: records})
}

// groupInfo returns a single group record
// GET /groups/{groupId}
func (a *API) groupInfo(w http.ResponseWriter, r *http.Request) {
	registryID, err := urlRegistryID(r)
	if err != nil {
		ErrMalformedGroupID.WithErr(err).Write(w)
		return
	}
	record, err := a.registry.GroupInfo(registryID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if !record.Exists {
		ErrGroupNotFound.Withf("registry id %d", registryID).Write(w)
		return
	}
	httpWriteJSON(w, record)
}

// joinGroup admits a member into a group
// POST /groups/{groupId}/members
func (a *API) joinGroup(w http.ResponseWriter, r *http.Request) {
	registryID, err := urlRegistryID(r)
	if err != nil {
		ErrMalformedGroupID.WithErr(err).Write(w)
		return
	}
	req := &JoinRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Commitment == nil {
		ErrMalformedBody.With("missing identity commitment").Write(w)
		return
	}
	err = a.registry.Join(registryID, req.Commitment.MathBigInt(), req.Member)
	switch {
	case err == nil:
		httpWriteOK(w)
	case errors.Is(err, registry.ErrGroupNotFound):
		ErrGroupNotFound.Withf("registry id %d", registryID).Write(w)
	case errors.Is(err, registry.ErrAlreadyJoined):
		ErrAlreadyJoined.Withf("address %s", req.Member).Write(w)
	case errors.Is(err, semaphore.ErrInvalidCommitment),
		errors.Is(err, semaphore.ErrMemberExists):
		ErrMalformedCommitment.WithErr(err).Write(w)
	case errors.Is(err, semaphore.ErrUnavailable):
		ErrProofServiceUnavailable.WithErr(err).Write(w)
	default:
		ErrGenericInternalServerError.WithErr(err).Write(w)
	}
}

// memberStatus returns the join status of an address
// GET /groups/{groupId}/members/{address}
func (a *API) memberStatus(w http.ResponseWriter, r *http.Request) {
	registryID, err := urlRegistryID(r)
	if err != nil {
		ErrMalformedGroupID.WithErr(err).Write(w)
		return
	}
	addressStr := chi.URLParam(r, AddressURLParam)
	if !common.IsHexAddress(addressStr) {
		ErrMalformedBody.Withf("malformed address %q", addressStr).Write(w)
		return
	}
	address := common.HexToAddress(addressStr)
	joined, err := a.registry.IsMember(registryID, address)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &MembershipResponse{
		RegistryID: registryID,
		Address:    address,
		Joined:     joined,
	})
}
