// Package ccrypto implements the cryptographic primitives closet builds on:
// CSPRNG access, Argon2id key derivation, and AEAD sealing/opening under the
// supported KDF profiles.
package ccrypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"math/big"

	"github.com/aeriskit/closet/internal/closeterr"
)

// SecureRandom reads cryptographically secure random bytes into b, sourced
// from the OS CSPRNG via crypto/rand.
func SecureRandom(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return closeterr.New(closeterr.KindInternal, "SecureRandom", err)
	}
	return nil
}

// SecureRandomBytes returns n cryptographically secure random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := SecureRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MustSecureRandomBytes returns n cryptographically secure random bytes. It
// panics if the CSPRNG fails, which indicates a broken host and is not
// something a closet operation can recover from.
func MustSecureRandomBytes(n int) []byte {
	b, err := SecureRandomBytes(n)
	if err != nil {
		panic("ccrypto: failed to read from CSPRNG: " + err.Error())
	}
	return b
}

// Reader is an io.Reader of cryptographically secure random bytes.
var Reader = rand.Reader

// ConstantTimeCompare reports whether a and b are equal, in time
// independent of where they first differ.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites b with zeros. Intended for passphrase-derived key
// material once a seal/open has completed.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeMultiple zeroizes every slice passed to it.
func ZeroizeMultiple(slices ...[]byte) {
	for _, s := range slices {
		Zeroize(s)
	}
}

// SecureIntn returns a cryptographically secure random integer in [0, n),
// sourced from crypto/rand rather than math/rand. Every caller choosing
// which slot holds a real drawer, or how large a decoy should be, goes
// through this rather than a seedable PRNG.
func SecureIntn(n int) (int, error) {
	if n <= 0 {
		panic("ccrypto: SecureIntn requires n > 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, closeterr.New(closeterr.KindInternal, "SecureIntn", err)
	}
	return int(v.Int64()), nil
}

// SecurePerm returns a random permutation of [0, n) via a Fisher-Yates
// shuffle driven by SecureIntn, so slot permutation carries the same
// CSPRNG guarantee as the seals it shuffles.
func SecurePerm(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := SecureIntn(i + 1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}
