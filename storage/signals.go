package storage

import (
	"fmt"

	"github.com/Akhil-2310/arkanon/types"
)

func signalKey(registryID uint64, nullifier *types.BigInt) []byte {
	padded := make([]byte, types.NullifierLen)
	nullifier.MathBigInt().FillBytes(padded)
	return prefixedKey(signalPrefix, registryIDKey(registryID), padded)
}

// PushSignal stores the receipt of an accepted signal. Receipts are emission
// records only and are never consulted by validation.
func (s *Storage) PushSignal(signal *types.Signal) error {
	if signal == nil || signal.Nullifier == nil {
		return fmt.Errorf("incomplete signal receipt")
	}
	data, err := encodeArtifact(signal)
	if err != nil {
		return err
	}
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(signalKey(signal.RegistryID, signal.Nullifier), data); err != nil {
		return err
	}
	return wTx.Commit()
}

// SignalsByGroup returns the receipts of all signals accepted for a group.
func (s *Storage) SignalsByGroup(registryID uint64) ([]*types.Signal, error) {
	signals := []*types.Signal{}
	var iterErr error
	prefix := prefixedKey(signalPrefix, registryIDKey(registryID))
	err := s.db.Iterate(prefix, func(_, value []byte) bool {
		signal := &types.Signal{}
		if iterErr = decodeArtifact(value, signal); iterErr != nil {
			return false
		}
		signals = append(signals, signal)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return signals, nil
}
