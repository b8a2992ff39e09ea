package semaphore

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// HashToField maps arbitrary bytes to the scalar field of the proof system:
// the keccak256 digest of the input, interpreted as a big-endian integer and
// shifted right by 8 bits so the result always fits the field. This is the
// same derivation the circuit applies to messages and scopes, so hashes
// emitted by this package are recomputable by anyone from the raw bytes.
// It must stay bit-for-bit identical to the in-circuit derivation.
func HashToField(data []byte) *big.Int {
	digest := ethcrypto.Keccak256(data)
	return new(big.Int).Rsh(new(big.Int).SetBytes(digest), 8)
}

// IdentityCommitment derives the public identity commitment from the two
// secret identity values, poseidon(poseidon(trapdoor, nullifier)). Members
// normally derive this client-side; it is exposed here so admission flows
// and tests can produce well-formed commitments.
func IdentityCommitment(trapdoor, nullifier *big.Int) (*big.Int, error) {
	secret, err := poseidon.Hash([]*big.Int{trapdoor, nullifier})
	if err != nil {
		return nil, err
	}
	return poseidon.Hash([]*big.Int{secret})
}
