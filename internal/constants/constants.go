// Package constants defines the on-disk format constants and security
// parameters for closet, a deniable, file-backed nested secret store.
package constants

// File format identification
const (
	// Magic is the 4-byte identifier at the start of every closet file.
	Magic = "CLST"

	// FormatVersion is the current on-disk format version.
	FormatVersion uint8 = 0x01
)

// Padding bucket schedule. A drawer's padded plaintext length is the
// smallest bucket at or above its structural length, or its previous bucket
// if that is larger; buckets double past the end of this table for
// pathologically large drawers.
var BucketSchedule = []int{512, 1024, 2048, 4096, 8192, 16384, 32768, 65536}

// Slot array sizing.
const (
	// MinSlots is the minimum number of slots a closet is ever serialized
	// with, real or decoy, so that a closet's slot count alone never
	// reveals "just created, zero drawers".
	MinSlots = 50

	// SlotGrowthFactor governs how many decoy slots are appended when a
	// closet runs out of free slots and must grow to fit a new drawer.
	SlotGrowthFactor = 2
)

// KDFProfile selects the combination of Argon2id parameters and AEAD cipher
// used to protect a single slot. The profile byte is carried in the file
// header; it is the only thing about a closet's cryptography that isn't
// itself secret.
type KDFProfile uint8

const (
	// ProfileArgon2idAESGCM is the default profile: Argon2id tuned for an
	// interactive CLI, AES-256-GCM for sealing.
	ProfileArgon2idAESGCM KDFProfile = 0x01

	// ProfileArgon2idChaCha20 trades memory for time and uses
	// ChaCha20-Poly1305, for machines without AES-NI.
	ProfileArgon2idChaCha20 KDFProfile = 0x02
)

// String returns a human-readable name for the profile.
func (p KDFProfile) String() string {
	switch p {
	case ProfileArgon2idAESGCM:
		return "argon2id-aes256gcm"
	case ProfileArgon2idChaCha20:
		return "argon2id-chacha20poly1305"
	default:
		return "unknown"
	}
}

// IsSupported reports whether p is a profile this build knows how to open.
func (p KDFProfile) IsSupported() bool {
	return p == ProfileArgon2idAESGCM || p == ProfileArgon2idChaCha20
}

// DefaultProfile is the profile used for every newly created closet.
const DefaultProfile = ProfileArgon2idAESGCM

// Argon2idParams holds the tunable cost parameters for a KDF profile.
type Argon2idParams struct {
	Time    uint32
	MemKiB  uint32
	Threads uint8
	KeyLen  uint32
}

// ProfileParams maps each supported profile to its Argon2id cost parameters.
var ProfileParams = map[KDFProfile]Argon2idParams{
	ProfileArgon2idAESGCM:   {Time: 3, MemKiB: 64 * 1024, Threads: 4, KeyLen: 32},
	ProfileArgon2idChaCha20: {Time: 4, MemKiB: 128 * 1024, Threads: 2, KeyLen: 32},
}

// AEAD parameters, shared by both profiles.
const (
	// NonceSize is the AEAD nonce length used by every supported cipher.
	NonceSize = 12

	// TagSize is the AEAD authentication tag length used by every
	// supported cipher.
	TagSize = 16

	// SaltSize is the length of the per-closet Argon2id salt.
	SaltSize = 16
)

// StructuralLengthPrefixSize is the width, in bytes, of the length prefix
// that precedes a drawer's structural (pre-padding) encoding.
const StructuralLengthPrefixSize = 4
