// Package closetgo provides an encrypted, deniable secret store: a single
// file holding any number of passphrase-protected "drawers", each able to
// nest further drawers inside it, where the file's bytes reveal nothing
// about how many drawers are real, which passphrases work, or how deep
// the nesting goes.
//
// # Quick Start
//
// For the core data model and file format:
//
//	import "github.com/aeriskit/closet/pkg/closet"
//
//	sc, _ := closet.New("correct horse battery staple")
//	oc := closet.Create(sc)
//	drawer, _ := oc.OpenTakeDrawer("correct horse battery staple")
//	drawer.Content.Entries = append(drawer.Content.Entries, closet.Entry{Name: "email", Value: "a@b"})
//	oc.PushBack(drawer)
//	data, _ := oc.CloseAndSave()
//
// For reading and writing the container atomically:
//
//	import "github.com/aeriskit/closet/pkg/closetfile"
//
//	closetfile.Save("vault.closet", data)
//	data, _ = closetfile.Read("vault.closet")
//
// # Package Structure
//
// The library is organized into several packages:
//
//   - pkg/closet: the closet/drawer data model, padding and decoy engine,
//     and the OpenCloset runtime that mediates access to a container
//   - pkg/ccrypto: key derivation (Argon2id) and authenticated encryption
//     (AES-256-GCM, ChaCha20-Poly1305) primitives
//   - pkg/closetfile: the filesystem boundary — full-file reads, and
//     write-temp/fsync/rename atomic saves
//   - pkg/telemetry: structured logging, tracing, and an opt-in Prometheus
//     metrics exporter for closetctl
//   - internal/constants: on-disk format constants and KDF/AEAD profile
//     parameters
//   - internal/closeterr: the error taxonomy (Aead, DuplicatePassphrase,
//     CorruptFile, UnsupportedVersion, Io, Internal)
//   - cmd/closetctl: the command-line front end
//
// # Security Properties
//
//   - Key derivation: Argon2id, parameterized per KDF profile
//   - Authenticated encryption: AES-256-GCM (default) or
//     ChaCha20-Poly1305, both with fresh random 96-bit nonces per seal
//   - Deniability: every slot in the container, real or decoy, is
//     computationally indistinguishable from any other; a closet's true
//     drawer count is never derivable from its bytes or its size
//   - Bucket monotonicity: a drawer's on-disk size only ever grows,
//     never shrinks, preventing size deltas from leaking content size
//     across saves
//   - Constant-time passphrase matching: an open attempt scans every
//     slot regardless of where (or whether) a match is found
//
// # Testing
//
// The library includes comprehensive tests:
//
//	go test ./...                                        # All tests
//	go test -fuzz=FuzzLoadSerializedCloset ./test/fuzz/  # Fuzz tests
//	go test -bench=. ./test/benchmark                    # Benchmarks
//	go test ./test/integration/...                       # End-to-end scenarios
//
// # Performance
//
// Typical performance on modern hardware (AMD64):
//
//   - Argon2id derivation (default profile): ~50-100 ms, dominated by
//     the 64 MiB memory parameter
//   - AES-256-GCM: ~2 GB/s (hardware-accelerated)
//   - ChaCha20-Poly1305: ~800 MB/s (software)
//
// # References
//
//   - RFC 9106: Argon2 Memory-Hard Function for Password Hashing
//   - NIST SP 800-38D: AES-GCM mode of operation
//   - RFC 8439: ChaCha20 and Poly1305 for IETF Protocols
package closetgo
