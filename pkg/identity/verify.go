package identity

import (
	"encoding/hex"
	"fmt"
)

// Verification is the outcome of re-deriving an identity from its exported
// private key and comparing the recomputed hashes against the originals.
type Verification struct {
	IdentityHashMatch bool
	DestHashMatch     bool
	IdentityHashHex   string
	DestHashHex       string
}

// Verify reloads the 64-byte private key blob, re-derives both public keys
// and recomputes the identity and destination hashes. It catches any
// mismatch between the search-time derivation and what an RNS application
// will compute when it imports the key.
func Verify(privateKey []byte, destName, wantIdentityHex, wantDestHex string) (*Verification, error) {
	id, err := FromPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("reload private key: %w", err)
	}

	nameHash, err := ResolveNameHash(destName)
	if err != nil {
		return nil, err
	}

	idHash := id.Hash()
	destHash := DestinationHash(nameHash, idHash)

	v := &Verification{
		IdentityHashHex: hex.EncodeToString(idHash[:]),
		DestHashHex:     hex.EncodeToString(destHash[:]),
	}
	v.IdentityHashMatch = v.IdentityHashHex == wantIdentityHex
	v.DestHashMatch = v.DestHashHex == wantDestHex
	return v, nil
}
