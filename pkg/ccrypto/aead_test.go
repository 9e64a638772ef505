package ccrypto

import (
	"bytes"
	"testing"

	"github.com/aeriskit/closet/internal/constants"
)

func TestAEADRoundTrip(t *testing.T) {
	for _, profile := range []constants.KDFProfile{constants.ProfileArgon2idAESGCM, constants.ProfileArgon2idChaCha20} {
		params := constants.ProfileParams[profile]
		key := MustSecureRandomBytes(int(params.KeyLen))

		a, err := NewAEAD(profile, key)
		if err != nil {
			t.Fatalf("NewAEAD(%v): %v", profile, err)
		}

		plaintext := []byte("a drawer's worth of secrets")
		aad := []byte("slot-0")

		ciphertext, err := a.Seal(plaintext, aad)
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		if len(ciphertext) != len(plaintext)+a.Overhead() {
			t.Fatalf("ciphertext length = %d, want %d", len(ciphertext), len(plaintext)+a.Overhead())
		}

		got, err := a.Open(ciphertext, aad)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("Open() = %q, want %q", got, plaintext)
		}
	}
}

func TestAEADOpenWrongAAD(t *testing.T) {
	key := MustSecureRandomBytes(32)
	a, err := NewAEAD(constants.ProfileArgon2idAESGCM, key)
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}

	ciphertext, err := a.Seal([]byte("payload"), []byte("aad-a"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := a.Open(ciphertext, []byte("aad-b")); err == nil {
		t.Fatalf("expected Open with mismatched AAD to fail")
	}
}

func TestAEADSealProducesDistinctNonces(t *testing.T) {
	key := MustSecureRandomBytes(32)
	a, err := NewAEAD(constants.ProfileArgon2idAESGCM, key)
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ciphertext, err := a.Seal([]byte("x"), nil)
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		nonce := string(ciphertext[:constants.NonceSize])
		if seen[nonce] {
			t.Fatalf("nonce reuse detected across %d seals", i)
		}
		seen[nonce] = true
	}
}

func TestSelfTest(t *testing.T) {
	if err := SelfTest(); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
}
