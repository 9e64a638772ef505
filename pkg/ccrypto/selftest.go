package ccrypto

import (
	"bytes"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
)

// SelfTest seals and opens a known plaintext under every supported KDF
// profile and confirms the roundtrip matches, and that tag verification
// actually rejects a flipped byte. It is meant to be run once at startup:
// a failure here means the build or runtime is broken in a way that would
// otherwise surface as a confusing "wrong passphrase" report later.
func SelfTest() error {
	const op = "SelfTest"
	plaintext := []byte("closet self-test plaintext")
	aad := []byte("closet self-test aad")

	for profile, params := range constants.ProfileParams {
		key := make([]byte, params.KeyLen)
		if err := SecureRandom(key); err != nil {
			return closeterr.New(closeterr.KindInternal, op, err)
		}

		a, err := NewAEAD(profile, key)
		if err != nil {
			return closeterr.New(closeterr.KindInternal, op, err)
		}

		ciphertext, err := a.Seal(plaintext, aad)
		if err != nil {
			return closeterr.New(closeterr.KindInternal, op, err)
		}

		recovered, err := a.Open(ciphertext, aad)
		if err != nil {
			return closeterr.New(closeterr.KindInternal, op, err)
		}
		if !bytes.Equal(recovered, plaintext) {
			return closeterr.New(closeterr.KindInternal, op, nil)
		}

		tampered := append([]byte(nil), ciphertext...)
		tampered[len(tampered)-1] ^= 0x01
		if _, err := a.Open(tampered, aad); err == nil {
			return closeterr.New(closeterr.KindInternal, op, nil)
		}
	}

	return nil
}
