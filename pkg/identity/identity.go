// Package identity implements Reticulum identity key generation and the
// hash derivations used for destination addressing.
//
// All digest lengths are wire-compatibility constants verified against
// RNS v1.1.3 (Identity.py NAME_HASH_LENGTH, Reticulum.py
// TRUNCATED_HASHLENGTH) and must not be changed.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/curve25519"
)

const (
	// NameHashSize is the truncated digest length for destination name hashes.
	NameHashSize = 10

	// HashSize is the truncated digest length for identity and destination hashes.
	HashSize = 16

	// PrivateKeySize is the RNS on-disk private key length:
	// 32-byte X25519 scalar followed by the 32-byte Ed25519 seed.
	PrivateKeySize = 64

	// HexAddressLen is the length of a hex-rendered destination hash.
	HexAddressLen = 2 * HashSize
)

// Well-known destination names with precomputed name hashes.
const (
	LXMFDelivery     = "lxmf.delivery"
	NomadNetworkNode = "nomadnetwork.node"
)

// Precomputed name hashes for the well-known destinations. These are fixed
// interoperability constants; tests verify them against NameHash.
var (
	LXMFDeliveryNameHash     = mustNameHash("6ec60bc318e2c0f0d908")
	NomadNetworkNodeNameHash = mustNameHash("213e6311bcec54ab4fde")

	knownNameHashes = map[string][NameHashSize]byte{
		LXMFDelivery:     LXMFDeliveryNameHash,
		NomadNetworkNode: NomadNetworkNodeNameHash,
	}
)

func mustNameHash(s string) [NameHashSize]byte {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != NameHashSize {
		panic("identity: bad name hash constant " + s)
	}
	var h [NameHashSize]byte
	copy(h[:], b)
	return h
}

// Identity holds one candidate key pair set: an X25519 key-exchange pair
// and an Ed25519 signing pair, matching the RNS identity key layout.
type Identity struct {
	EncPrv [32]byte // X25519 private scalar
	EncPub [32]byte // X25519 public key
	SigPrv [32]byte // Ed25519 seed
	SigPub [32]byte // Ed25519 public key
}

// Generate creates a fresh identity from crypto/rand. An error here means
// the entropy source itself failed and the caller must not continue.
func Generate() (*Identity, error) {
	id := &Identity{}

	if _, err := rand.Read(id.EncPrv[:]); err != nil {
		return nil, fmt.Errorf("read entropy for encryption key: %w", err)
	}
	if _, err := rand.Read(id.SigPrv[:]); err != nil {
		return nil, fmt.Errorf("read entropy for signing key: %w", err)
	}

	if err := id.derivePublic(); err != nil {
		return nil, err
	}
	return id, nil
}

// FromPrivateKey reconstructs an identity from the 64-byte RNS private key
// blob, re-deriving both public keys.
func FromPrivateKey(key []byte) (*Identity, error) {
	if len(key) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(key))
	}
	id := &Identity{}
	copy(id.EncPrv[:], key[:32])
	copy(id.SigPrv[:], key[32:])
	if err := id.derivePublic(); err != nil {
		return nil, err
	}
	return id, nil
}

func (id *Identity) derivePublic() error {
	encPub, err := curve25519.X25519(id.EncPrv[:], curve25519.Basepoint)
	if err != nil {
		return fmt.Errorf("derive X25519 public key: %w", err)
	}
	copy(id.EncPub[:], encPub)

	sigPub := ed25519.NewKeyFromSeed(id.SigPrv[:]).Public().(ed25519.PublicKey)
	copy(id.SigPub[:], sigPub)
	return nil
}

// Hash returns the 16-byte identity hash: SHA-256 of the concatenated
// public keys, truncated.
func (id *Identity) Hash() [HashSize]byte {
	h := sha256.New()
	h.Write(id.EncPub[:])
	h.Write(id.SigPub[:])
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PrivateKey returns the 64-byte RNS private key blob
// (X25519 scalar || Ed25519 seed). The caller owns the returned slice.
func (id *Identity) PrivateKey() []byte {
	key := make([]byte, 0, PrivateKeySize)
	key = append(key, id.EncPrv[:]...)
	key = append(key, id.SigPrv[:]...)
	return key
}

// NameHash computes the 10-byte name hash for a full destination name,
// e.g. "lxmf.delivery".
func NameHash(destName string) [NameHashSize]byte {
	sum := sha256.Sum256([]byte(destName))
	var out [NameHashSize]byte
	copy(out[:], sum[:])
	return out
}

// DestinationHash computes the 16-byte destination hash from a name hash
// and an identity hash.
func DestinationHash(nameHash [NameHashSize]byte, identityHash [HashSize]byte) [HashSize]byte {
	h := sha256.New()
	h.Write(nameHash[:])
	h.Write(identityHash[:])
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ResolveNameHash returns the name hash for a destination name. Well-known
// names use their precomputed constants; anything else must be of the form
// "app.aspect".
func ResolveNameHash(destName string) ([NameHashSize]byte, error) {
	if h, ok := knownNameHashes[destName]; ok {
		return h, nil
	}
	if !strings.Contains(destName, ".") {
		var zero [NameHashSize]byte
		return zero, fmt.Errorf("invalid destination %q: use the form app.aspect", destName)
	}
	return NameHash(destName), nil
}

// hextable is the lowercase alphabet used for allocation-free hex encoding
// in the search hot loop.
const hextable = "0123456789abcdef"

// HexEncode encodes src into dst as lowercase hexadecimal without
// allocating. dst must be at least len(src)*2 bytes.
func HexEncode(dst, src []byte) {
	for i, v := range src {
		dst[i*2] = hextable[v>>4]
		dst[i*2+1] = hextable[v&0x0f]
	}
}
