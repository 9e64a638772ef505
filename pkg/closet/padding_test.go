package closet

import (
	"bytes"
	"testing"

	"github.com/aeriskit/closet/internal/constants"
)

func TestPadStructuralRoundTrip(t *testing.T) {
	data := []byte("hello drawer")
	padded, err := padStructural(data, 0)
	if err != nil {
		t.Fatalf("padStructural: %v", err)
	}

	got, err := unpadStructural(padded)
	if err != nil {
		t.Fatalf("unpadStructural: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("unpadStructural() = %q, want %q", got, data)
	}
}

func TestPadStructuralRespectsMinBucket(t *testing.T) {
	data := []byte("x")
	small, err := padStructural(data, 0)
	if err != nil {
		t.Fatalf("padStructural: %v", err)
	}

	forced, err := padStructural(data, constants.BucketSchedule[3])
	if err != nil {
		t.Fatalf("padStructural: %v", err)
	}

	if len(forced) <= len(small) {
		t.Fatalf("forced bucket length %d not greater than natural length %d", len(forced), len(small))
	}
	if len(forced) != constants.BucketSchedule[3] {
		t.Fatalf("forced length = %d, want %d", len(forced), constants.BucketSchedule[3])
	}
}

func TestBucketForLengthMonotonic(t *testing.T) {
	prev := 0
	for _, n := range []int{1, 511, 512, 513, 65536, 65537, 200000} {
		b := bucketForLength(n)
		if b < n {
			t.Fatalf("bucketForLength(%d) = %d, smaller than input", n, b)
		}
		if b < prev {
			t.Fatalf("bucket schedule not monotonic: got %d after %d", b, prev)
		}
		prev = b
	}
}

func TestGenerateDecoyLooksLikeASlot(t *testing.T) {
	decoy, err := generateDecoy(2)
	if err != nil {
		t.Fatalf("generateDecoy: %v", err)
	}
	if len(decoy.Nonce) != constants.NonceSize {
		t.Fatalf("decoy nonce length = %d, want %d", len(decoy.Nonce), constants.NonceSize)
	}
	if len(decoy.Ciphertext) == 0 {
		t.Fatalf("expected non-empty decoy ciphertext")
	}
}
