// Package benchmark provides performance benchmarks for closet's
// cryptographic primitives and drawer/closet operations.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./test/benchmark/
//
// For profiling:
//
//	go test -bench=. -cpuprofile=cpu.prof -memprofile=mem.prof ./test/benchmark/
package benchmark

import (
	"testing"

	"github.com/aeriskit/closet/internal/constants"
	"github.com/aeriskit/closet/pkg/ccrypto"
	"github.com/aeriskit/closet/pkg/closet"
)

// --- Cryptographic Primitive Benchmarks ---

func BenchmarkSecureRandomBytes32(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ccrypto.SecureRandomBytes(32); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeriveKeyAESProfile(b *testing.B) {
	salt, _ := ccrypto.NewSalt()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ccrypto.DeriveKey(constants.ProfileArgon2idAESGCM, []byte("benchmark passphrase"), salt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeriveKeyChaCha20Profile(b *testing.B) {
	salt, _ := ccrypto.NewSalt()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ccrypto.DeriveKey(constants.ProfileArgon2idChaCha20, []byte("benchmark passphrase"), salt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAEADSeal(b *testing.B) {
	key, _ := ccrypto.SecureRandomBytes(32)
	aead, err := ccrypto.NewAEAD(constants.ProfileArgon2idAESGCM, key)
	if err != nil {
		b.Fatal(err)
	}
	plaintext := make([]byte, 4096)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := aead.Seal(plaintext, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAEADOpen(b *testing.B) {
	key, _ := ccrypto.SecureRandomBytes(32)
	aead, err := ccrypto.NewAEAD(constants.ProfileArgon2idAESGCM, key)
	if err != nil {
		b.Fatal(err)
	}
	plaintext := make([]byte, 4096)
	sealed, err := aead.Seal(plaintext, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := aead.Open(sealed, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Closet-Level Benchmarks ---

func BenchmarkNewCloset(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := closet.New("benchmark passphrase"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOpenTakeDrawer(b *testing.B) {
	sc, err := closet.New("benchmark passphrase")
	if err != nil {
		b.Fatal(err)
	}
	data, err := sc.Save()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		loaded, err := closet.Load(data)
		if err != nil {
			b.Fatal(err)
		}
		oc := closet.Create(loaded)
		b.StartTimer()

		if _, err := oc.OpenTakeDrawer("benchmark passphrase"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCloseAndSave(b *testing.B) {
	sc, err := closet.New("benchmark passphrase")
	if err != nil {
		b.Fatal(err)
	}
	data, err := sc.Save()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		loaded, err := closet.Load(data)
		if err != nil {
			b.Fatal(err)
		}
		oc := closet.Create(loaded)
		drawer, err := oc.OpenTakeDrawer("benchmark passphrase")
		if err != nil {
			b.Fatal(err)
		}
		if err := oc.PushBack(drawer); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		if _, err := oc.CloseAndSave(); err != nil {
			b.Fatal(err)
		}
	}
}
