package closet

import (
	"encoding/binary"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
	"github.com/aeriskit/closet/pkg/ccrypto"
)

// bucketForLength returns the smallest schedule bucket at or above n,
// doubling past the end of the table for pathologically large content.
func bucketForLength(n int) int {
	for _, b := range constants.BucketSchedule {
		if n <= b {
			return b
		}
	}
	b := constants.BucketSchedule[len(constants.BucketSchedule)-1]
	for b < n {
		b *= 2
	}
	return b
}

// bucketIndex returns the index into an (imaginary, extended) bucket
// sequence for n, used only to compare "how big a bucket" two lengths need
// without caring about the absolute byte count.
func bucketIndex(n int) int {
	idx := 0
	b := constants.BucketSchedule[0]
	for b < n {
		b *= 2
		idx++
	}
	return idx
}

// padStructural prepends a 4-byte structural length prefix to data and pads
// the result with random bytes up to the chosen bucket. minBucketLen lets a
// caller force a bucket no smaller than a drawer's previous size, enforcing
// bucket monotonicity (P5) across saves.
func padStructural(data []byte, minBucketLen int) ([]byte, error) {
	structural := make([]byte, constants.StructuralLengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(structural, uint32(len(data)))
	copy(structural[constants.StructuralLengthPrefixSize:], data)

	bucket := bucketForLength(len(structural))
	if bucket < minBucketLen {
		bucket = minBucketLen
	}

	out := ccrypto.GetBucketBuffer(bucket)
	if cap(out) < bucket {
		out = make([]byte, bucket)
	}
	out = out[:bucket]
	copy(out, structural)

	padding, err := ccrypto.SecureRandomBytes(bucket - len(structural))
	if err != nil {
		return nil, err
	}
	copy(out[len(structural):], padding)

	return out, nil
}

// unpadStructural reverses padStructural: it reads the structural length
// prefix and returns exactly that many bytes, discarding padding.
func unpadStructural(padded []byte) ([]byte, error) {
	const op = "unpadStructural"
	if len(padded) < constants.StructuralLengthPrefixSize {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}
	n := binary.BigEndian.Uint32(padded[:constants.StructuralLengthPrefixSize])
	end := constants.StructuralLengthPrefixSize + int(n)
	if end > len(padded) {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}
	return padded[constants.StructuralLengthPrefixSize:end], nil
}

// generateDecoy produces a ClosedDrawer indistinguishable from a real one:
// a random nonce and a random body sized to a bucket drawn uniformly from
// [0, maxBucketIdx] of the schedule, matching the plausible size range of
// whatever real drawers are already on disk.
func generateDecoy(maxBucketIdx int) (ClosedDrawer, error) {
	if maxBucketIdx < 0 {
		maxBucketIdx = 0
	}
	idx, err := ccrypto.SecureIntn(maxBucketIdx + 1)
	if err != nil {
		return ClosedDrawer{}, err
	}
	bodyLen := bucketAtIndex(idx) + constants.TagSize

	nonce, err := ccrypto.SecureRandomBytes(constants.NonceSize)
	if err != nil {
		return ClosedDrawer{}, err
	}
	body, err := ccrypto.SecureRandomBytes(bodyLen)
	if err != nil {
		return ClosedDrawer{}, err
	}
	return ClosedDrawer{Nonce: nonce, Ciphertext: body}, nil
}

// bucketAtIndex returns the schedule bucket at idx, extending the table by
// doubling beyond its end.
func bucketAtIndex(idx int) int {
	if idx < len(constants.BucketSchedule) {
		return constants.BucketSchedule[idx]
	}
	b := constants.BucketSchedule[len(constants.BucketSchedule)-1]
	for i := len(constants.BucketSchedule); i <= idx; i++ {
		b *= 2
	}
	return b
}
