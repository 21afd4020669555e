package identity

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exported holds every rendering of a generated identity that downstream
// RNS applications can import. Base32 is the format Sideband on Android
// accepts; the raw 64-byte blob is what Nomadnet and Sideband desktop read
// from their identity files.
type Exported struct {
	PrivateKeyRaw    []byte
	IdentityHashHex  string
	DestHashes       map[string]string // destination name -> 32-char hex
	PrivateKeyHex    string
	PrivateKeyBase32 string
	PrivateKeyBase64 string
}

// Export prepares all renderings for an identity. Destination hashes are
// computed for every well-known destination plus destName when it is not
// one of them.
func Export(id *Identity, destName string) *Exported {
	idHash := id.Hash()

	destHashes := make(map[string]string, len(knownNameHashes)+1)
	for name, nameHash := range knownNameHashes {
		dh := DestinationHash(nameHash, idHash)
		destHashes[name] = hex.EncodeToString(dh[:])
	}
	if _, ok := destHashes[destName]; !ok && destName != "" {
		dh := DestinationHash(NameHash(destName), idHash)
		destHashes[destName] = hex.EncodeToString(dh[:])
	}

	key := id.PrivateKey()
	return &Exported{
		PrivateKeyRaw:    key,
		IdentityHashHex:  hex.EncodeToString(idHash[:]),
		DestHashes:       destHashes,
		PrivateKeyHex:    hex.EncodeToString(key),
		PrivateKeyBase32: base32.StdEncoding.EncodeToString(key),
		PrivateKeyBase64: base64.StdEncoding.EncodeToString(key),
	}
}

// SaveIdentityFile writes the raw 64-byte private key in the RNS identity
// file format. The file is created with mode 0600; the key is a secret.
func (e *Exported) SaveIdentityFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(abs); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(abs, e.PrivateKeyRaw, 0o600); err != nil {
		return "", fmt.Errorf("write identity file: %w", err)
	}
	return abs, nil
}

// SaveInfoFile writes a human-readable summary with import instructions
// for the common RNS applications.
func (e *Exported) SaveInfoFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(abs); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString("# revanity Generated Identity\n")
	fmt.Fprintf(&b, "# Identity Hash: %s\n#\n", e.IdentityHashHex)
	b.WriteString("# Destination Hashes:\n")
	names := make([]string, 0, len(e.DestHashes))
	for name := range e.DestHashes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "#   %s: %s\n", name, e.DestHashes[name])
	}
	b.WriteString("#\n# Private Key (KEEP SECRET):\n")
	fmt.Fprintf(&b, "#   Hex:    %s\n", e.PrivateKeyHex)
	fmt.Fprintf(&b, "#   Base32: %s\n", e.PrivateKeyBase32)
	fmt.Fprintf(&b, "#   Base64: %s\n", e.PrivateKeyBase64)
	b.WriteString(`#
# Import Instructions:
#
#   Nomadnet:
#     cp <file>.identity ~/.nomadnetwork/storage/identity
#     (restart Nomadnet after copying)
#
#   Sideband (Linux):
#     cp <file>.identity ~/.config/sideband/storage/identity
#
#   Sideband (Android):
#     Import the Base32 string above via Settings > Identity
#
#   rnid utility:
`)
	fmt.Fprintf(&b, "#     rnid -m %s\n", e.PrivateKeyHex)
	fmt.Fprintf(&b, "#     rnid -m %s -B\n#\n", e.PrivateKeyBase32)

	if err := os.WriteFile(abs, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("write info file: %w", err)
	}
	return abs, nil
}
