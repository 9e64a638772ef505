// aead.go implements authenticated encryption for the two supported KDF
// profiles.
//
// Unlike a live transport, a closet has no session to track a nonce counter
// against: drawers are resealed independently, out of order, and not
// necessarily every save. Every Seal therefore draws a fresh 96-bit nonce
// from the CSPRNG rather than incrementing a counter. This is safe as long
// as nonces are never reused for a given key, which a 96-bit random draw
// makes vanishingly unlikely across the number of seals a single drawer's
// key will ever perform.
package ccrypto

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
)

// AEAD wraps a cipher.AEAD selected by a KDF profile.
type AEAD struct {
	cipher  cipher.AEAD
	profile constants.KDFProfile
}

// NewAEAD builds an AEAD for profile using key, which must be the profile's
// configured key length.
func NewAEAD(profile constants.KDFProfile, key []byte) (*AEAD, error) {
	params, ok := constants.ProfileParams[profile]
	if !ok {
		return nil, closeterr.New(closeterr.KindUnsupportedVersion, "NewAEAD", nil)
	}
	if uint32(len(key)) != params.KeyLen {
		return nil, closeterr.New(closeterr.KindInternal, "NewAEAD", nil)
	}

	var aeadCipher cipher.AEAD
	switch profile {
	case constants.ProfileArgon2idAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, closeterr.New(closeterr.KindAead, "NewAEAD", err)
		}
		aeadCipher, err = cipher.NewGCM(block)
		if err != nil {
			return nil, closeterr.New(closeterr.KindAead, "NewAEAD", err)
		}
	case constants.ProfileArgon2idChaCha20:
		var err error
		aeadCipher, err = chacha20poly1305.New(key)
		if err != nil {
			return nil, closeterr.New(closeterr.KindAead, "NewAEAD", err)
		}
	default:
		return nil, closeterr.New(closeterr.KindUnsupportedVersion, "NewAEAD", nil)
	}

	return &AEAD{cipher: aeadCipher, profile: profile}, nil
}

// Seal encrypts and authenticates plaintext under a fresh random nonce,
// returning nonce || ciphertext || tag.
func (a *AEAD) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce, err := SecureRandomBytes(constants.NonceSize)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, "Seal", err)
	}

	body, err := a.SealWithNonce(nonce, plaintext, additionalData)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, constants.NonceSize+len(body))
	out = append(out, nonce...)
	out = append(out, body...)
	return out, nil
}

// Open verifies and decrypts ciphertext, which must be the nonce || body
// shape produced by Seal.
func (a *AEAD) Open(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < constants.NonceSize+constants.TagSize {
		return nil, closeterr.New(closeterr.KindAead, "Open", nil)
	}

	nonce := ciphertext[:constants.NonceSize]
	body := ciphertext[constants.NonceSize:]
	return a.OpenWithNonce(nonce, body, additionalData)
}

// SealWithNonce encrypts and authenticates plaintext under an explicit
// nonce, returning ciphertext || tag with no nonce prefix. The caller is
// responsible for nonce uniqueness and for storing it alongside the
// returned body (see ClosedDrawer, which carries the nonce as a separate
// field).
func (a *AEAD) SealWithNonce(nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(nonce) != constants.NonceSize {
		return nil, closeterr.New(closeterr.KindAead, "SealWithNonce", nil)
	}
	return a.cipher.Seal(nil, nonce, plaintext, additionalData), nil
}

// OpenWithNonce verifies and decrypts body (ciphertext || tag, no nonce
// prefix) using an explicit nonce.
func (a *AEAD) OpenWithNonce(nonce, body, additionalData []byte) ([]byte, error) {
	if len(nonce) != constants.NonceSize {
		return nil, closeterr.New(closeterr.KindAead, "OpenWithNonce", nil)
	}
	if len(body) < constants.TagSize {
		return nil, closeterr.New(closeterr.KindAead, "OpenWithNonce", nil)
	}
	plaintext, err := a.cipher.Open(nil, nonce, body, additionalData)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, "OpenWithNonce", err)
	}
	return plaintext, nil
}

// Overhead returns the number of bytes Seal adds beyond the plaintext
// length: the nonce plus the authentication tag.
func (a *AEAD) Overhead() int {
	return constants.NonceSize + a.cipher.Overhead()
}

// Profile returns the KDF profile this AEAD was constructed for.
func (a *AEAD) Profile() constants.KDFProfile {
	return a.profile
}
