package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Akhil-2310/arkanon/registry"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/Akhil-2310/arkanon/signal"
)

// submitSignal validates a membership proof and records the signal
// POST /groups/{groupId}/signals
func (a *API) submitSignal(w http.ResponseWriter, r *http.Request) {
	registryID, err := urlRegistryID(r)
	if err != nil {
		ErrMalformedGroupID.WithErr(err).Write(w)
		return
	}
	req := &SignalRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Nullifier == nil {
		ErrMalformedBody.With("missing nullifier").Write(w)
		return
	}
	receipt, err := a.validator.Submit(registryID, &semaphore.Proof{
		Nullifier:  req.Nullifier,
		Message:    req.Message,
		Scope:      req.Scope,
		MerkleRoot: req.MerkleRoot,
		Points:     req.Proof,
	})
	switch {
	case err == nil:
		httpWriteJSON(w, receipt)
	case errors.Is(err, registry.ErrGroupNotFound):
		ErrGroupNotFound.Withf("registry id %d", registryID).Write(w)
	case errors.Is(err, signal.ErrNullifierReused):
		ErrNullifierUsed.WithErr(err).Write(w)
	case errors.Is(err, semaphore.ErrProofInvalid):
		ErrInvalidProof.WithErr(err).Write(w)
	case errors.Is(err, semaphore.ErrUnavailable):
		ErrProofServiceUnavailable.WithErr(err).Write(w)
	default:
		ErrGenericInternalServerError.WithErr(err).Write(w)
	}
}

// listSignals returns the receipts of all signals accepted for a group
// GET /groups/{groupId}/signals
func (a *API) listSignals(w http.ResponseWriter, r *http.Request) {
	registryID, err := urlRegistryID(r)
	if err != nil {
		ErrMalformedGroupID.WithErr(err).Write(w)
		return
	}
	receipts, err := a.validator.Signals(registryID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &SignalList{Signals: receipts})
}
