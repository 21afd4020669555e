package identity

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestExportRenderingsAgree(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	exp := Export(id, LXMFDelivery)

	if len(exp.PrivateKeyRaw) != PrivateKeySize {
		t.Fatalf("raw key length = %d, want %d", len(exp.PrivateKeyRaw), PrivateKeySize)
	}
	if exp.PrivateKeyHex != hex.EncodeToString(exp.PrivateKeyRaw) {
		t.Fatal("hex rendering does not match raw key")
	}
	if exp.PrivateKeyBase32 != base32.StdEncoding.EncodeToString(exp.PrivateKeyRaw) {
		t.Fatal("base32 rendering does not match raw key")
	}
	if exp.PrivateKeyBase64 != base64.StdEncoding.EncodeToString(exp.PrivateKeyRaw) {
		t.Fatal("base64 rendering does not match raw key")
	}

	// Exported raw key must round-trip back to the same identity.
	reloaded, err := FromPrivateKey(exp.PrivateKeyRaw)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}
	idHash := reloaded.Hash()
	if hex.EncodeToString(idHash[:]) != exp.IdentityHashHex {
		t.Fatal("identity hash does not survive export round trip")
	}
}

func TestExportCoversKnownAndCustomDestinations(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	exp := Export(id, "myapp.chat")

	for _, name := range []string{LXMFDelivery, NomadNetworkNode, "myapp.chat"} {
		dh, ok := exp.DestHashes[name]
		if !ok {
			t.Fatalf("missing destination hash for %s", name)
		}
		if len(dh) != HexAddressLen {
			t.Fatalf("destination hash for %s has length %d", name, len(dh))
		}
	}
}

func TestSaveIdentityFile(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	exp := Export(id, LXMFDelivery)

	path := filepath.Join(t.TempDir(), "out", "vanity.identity")
	abs, err := exp.SaveIdentityFile(path)
	if err != nil {
		t.Fatalf("SaveIdentityFile: %v", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read back identity file: %v", err)
	}
	if !bytes.Equal(data, exp.PrivateKeyRaw) {
		t.Fatal("identity file content does not match private key")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(abs)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("identity file mode = %v, want 0600", info.Mode().Perm())
		}
	}
}

func TestSaveInfoFile(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	exp := Export(id, LXMFDelivery)

	abs, err := exp.SaveInfoFile(filepath.Join(t.TempDir(), "vanity.txt"))
	if err != nil {
		t.Fatalf("SaveInfoFile: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read back info file: %v", err)
	}
	text := string(data)
	for _, want := range []string{exp.IdentityHashHex, exp.PrivateKeyHex, LXMFDelivery} {
		if !strings.Contains(text, want) {
			t.Fatalf("info file missing %q", want)
		}
	}
}

func TestVerify(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	idHash := id.Hash()
	destHash := DestinationHash(LXMFDeliveryNameHash, idHash)
	idHex := hex.EncodeToString(idHash[:])
	destHex := hex.EncodeToString(destHash[:])

	v, err := Verify(id.PrivateKey(), LXMFDelivery, idHex, destHex)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !v.IdentityHashMatch || !v.DestHashMatch {
		t.Fatalf("expected matching verification, got %+v", v)
	}

	v, err = Verify(id.PrivateKey(), LXMFDelivery, idHex, strings.Repeat("0", HexAddressLen))
	if err != nil {
		t.Fatalf("Verify with wrong dest: %v", err)
	}
	if v.DestHashMatch {
		t.Fatal("verification should fail for a corrupted destination hash")
	}

	if _, err := Verify(make([]byte, 10), LXMFDelivery, idHex, destHex); err == nil {
		t.Fatal("expected error for malformed private key")
	}
}
