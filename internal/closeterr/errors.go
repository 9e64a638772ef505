// Package closeterr defines the error taxonomy used across closet: a small
// set of sentinel errors grouped by kind, plus a wrapping type that attaches
// an operation name without leaking anything sensitive into the message.
package closeterr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind uint8

const (
	// KindAead covers AEAD seal/open failures: wrong passphrase, corrupted
	// ciphertext, or a tampered tag. Deliberately the same Kind for all
	// three, since distinguishing them would leak information about which
	// slots are real.
	KindAead Kind = iota + 1

	// KindDuplicatePassphrase is returned when a passphrase collides with
	// one already in use elsewhere in the same closet.
	KindDuplicatePassphrase

	// KindCorruptFile covers structural problems in the file itself: bad
	// magic, truncated slots, a length prefix past the end of the buffer.
	KindCorruptFile

	// KindUnsupportedVersion covers a recognized file that this build
	// does not know how to read: a future format version or KDF profile.
	KindUnsupportedVersion

	// KindIo covers failures in the underlying filesystem operations.
	KindIo

	// KindInternal covers invariant violations that indicate a bug rather
	// than bad input: an empty frame stack, a nil nested closet, and so on.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindAead:
		return "aead"
	case KindDuplicatePassphrase:
		return "duplicate-passphrase"
	case KindCorruptFile:
		return "corrupt-file"
	case KindUnsupportedVersion:
		return "unsupported-version"
	case KindIo:
		return "io"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Sentinel errors. Wrap these with New so that errors.Is still matches the
// sentinel while Error() carries an operation name.
var (
	// ErrAead indicates a seal or open failed: wrong passphrase, corrupted
	// ciphertext, or a tampered authentication tag. Collapsing these into
	// one sentinel is intentional; see KindAead.
	ErrAead = errors.New("closet: aead operation failed")

	// ErrDuplicatePassphrase indicates a passphrase is already in use by
	// another drawer in the same closet.
	ErrDuplicatePassphrase = errors.New("closet: passphrase already in use")

	// ErrCorruptFile indicates the file's structure is invalid: bad magic,
	// a truncated slot, or a length prefix that runs past the buffer.
	ErrCorruptFile = errors.New("closet: corrupt file")

	// ErrUnsupportedVersion indicates a recognized but unreadable format
	// version or KDF profile byte.
	ErrUnsupportedVersion = errors.New("closet: unsupported version")

	// ErrIo indicates an underlying filesystem operation failed.
	ErrIo = errors.New("closet: io error")

	// ErrInternal indicates an invariant was violated.
	ErrInternal = errors.New("closet: internal error")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindAead:
		return ErrAead
	case KindDuplicatePassphrase:
		return ErrDuplicatePassphrase
	case KindCorruptFile:
		return ErrCorruptFile
	case KindUnsupportedVersion:
		return ErrUnsupportedVersion
	case KindIo:
		return ErrIo
	default:
		return ErrInternal
	}
}

// Error wraps an underlying error with the Kind and operation that produced
// it. Its Error() string never includes the underlying plaintext, key
// material, or passphrase; callers are responsible for not passing those in.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("closet: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("closet: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	errs := []error{sentinelFor(e.Kind)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// New builds an *Error for op, wrapping err under kind's sentinel.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err's chain contains target. Convenience wrapper
// around errors.Is so callers need only import this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target. Convenience
// wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// KindOf reports the Kind of err if it (or something in its chain) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (k Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
