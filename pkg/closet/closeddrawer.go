package closet

import (
	"context"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
	"github.com/aeriskit/closet/pkg/ccrypto"
	"github.com/aeriskit/closet/pkg/telemetry"
)

// ClosedDrawer is the on-disk form of a drawer: a nonce and the ciphertext
// it was sealed under. Its Ciphertext length reveals only a padded upper
// bound on the drawer's structural content (I3), never the real size.
type ClosedDrawer struct {
	Nonce      []byte
	Ciphertext []byte
}

// sealDrawer serializes content, pads it to the bucket required by
// minBucketLen (enforcing bucket monotonicity across saves), and seals it
// under passphrase. It fails with KindAead only on an internal cipher
// error — never because of the passphrase, since sealing always succeeds
// for whoever is holding the plaintext.
func sealDrawer(content *DrawerContent, passphrase string, salt []byte, profile constants.KDFProfile, minBucketLen int) (ClosedDrawer, error) {
	const op = "sealDrawer"

	content.stripEmptyEntries()

	plaintext, err := content.encode()
	if err != nil {
		return ClosedDrawer{}, closeterr.New(closeterr.KindAead, op, err)
	}

	padded, err := padStructural(plaintext, minBucketLen)
	if err != nil {
		return ClosedDrawer{}, closeterr.New(closeterr.KindAead, op, err)
	}
	defer ccrypto.PutBucketBuffer(padded)

	key, err := deriveKeyTraced(profile, passphrase, salt)
	if err != nil {
		return ClosedDrawer{}, closeterr.New(closeterr.KindAead, op, err)
	}
	defer ccrypto.Zeroize(key)

	a, err := ccrypto.NewAEAD(profile, key)
	if err != nil {
		return ClosedDrawer{}, closeterr.New(closeterr.KindAead, op, err)
	}

	nonce, err := ccrypto.SecureRandomBytes(constants.NonceSize)
	if err != nil {
		return ClosedDrawer{}, closeterr.New(closeterr.KindAead, op, err)
	}

	_, endSeal := telemetry.StartSpan(context.Background(), telemetry.SpanAEADSeal,
		telemetry.WithAttributes(telemetry.SpanAttributes{Profile: profile.String()}.ToMap()))
	ciphertext, err := a.SealWithNonce(nonce, padded, nil)
	endSeal(err)
	if err != nil {
		return ClosedDrawer{}, closeterr.New(closeterr.KindAead, op, err)
	}

	return ClosedDrawer{Nonce: nonce, Ciphertext: ciphertext}, nil
}

// deriveKeyTraced wraps ccrypto.DeriveKey in a span, since Argon2id
// derivation is the single dominant cost in sealing or opening a drawer.
func deriveKeyTraced(profile constants.KDFProfile, passphrase string, salt []byte) ([]byte, error) {
	_, end := telemetry.StartSpan(context.Background(), telemetry.SpanKDFDerive,
		telemetry.WithAttributes(telemetry.SpanAttributes{Profile: profile.String()}.ToMap()))
	key, err := ccrypto.DeriveKey(profile, []byte(passphrase), salt)
	end(err)
	return key, err
}

// openDrawer derives the cipher for passphrase and attempts to decrypt and
// deserialize closed. Every failure mode — wrong passphrase, decoy garbage,
// or genuinely corrupt bytes — collapses into the single KindAead error;
// distinguishing them would leak which slots are real.
func openDrawer(closed ClosedDrawer, passphrase string, salt []byte, profile constants.KDFProfile) (*DrawerContent, error) {
	const op = "openDrawer"

	key, err := deriveKeyTraced(profile, passphrase, salt)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}
	defer ccrypto.Zeroize(key)

	a, err := ccrypto.NewAEAD(profile, key)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}

	_, endOpen := telemetry.StartSpan(context.Background(), telemetry.SpanAEADOpen,
		telemetry.WithAttributes(telemetry.SpanAttributes{Profile: profile.String()}.ToMap()))
	padded, err := a.OpenWithNonce(closed.Nonce, closed.Ciphertext, nil)
	endOpen(err)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}

	plaintext, err := unpadStructural(padded)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}

	content, err := decodeContent(plaintext)
	if err != nil {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}

	return content, nil
}

// bucketIndexOf reports the schedule bucket index of closed, recovered
// from its ciphertext length rather than stored separately, keeping the
// wire format minimal (§3 of the expanded design).
func (c ClosedDrawer) bucketIndexOf(profile constants.KDFProfile) int {
	overhead := aeadOverhead(profile)
	bodyLen := len(c.Ciphertext) - overhead
	if bodyLen < 0 {
		bodyLen = 0
	}
	return bucketIndex(bodyLen)
}

func aeadOverhead(profile constants.KDFProfile) int {
	return constants.TagSize
}
