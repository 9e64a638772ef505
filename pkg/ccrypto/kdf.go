package ccrypto

import (
	"golang.org/x/crypto/argon2"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
)

// DeriveKey stretches passphrase into a profile's key length using Argon2id,
// salted with salt. The same (passphrase, salt, profile) triple always
// derives the same key; callers are responsible for discarding passphrase
// and the derived key once they're done with them.
func DeriveKey(profile constants.KDFProfile, passphrase, salt []byte) ([]byte, error) {
	params, ok := constants.ProfileParams[profile]
	if !ok {
		return nil, closeterr.New(closeterr.KindUnsupportedVersion, "DeriveKey", nil)
	}
	if len(salt) != constants.SaltSize {
		return nil, closeterr.New(closeterr.KindInternal, "DeriveKey", nil)
	}

	key := argon2.IDKey(passphrase, salt, params.Time, params.MemKiB, params.Threads, params.KeyLen)
	return key, nil
}

// NewSalt generates a fresh, random per-closet Argon2id salt.
func NewSalt() ([]byte, error) {
	return SecureRandomBytes(constants.SaltSize)
}
