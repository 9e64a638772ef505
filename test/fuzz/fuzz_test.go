// Package fuzz provides fuzz tests for closet's untrusted-input parsing
// paths: the on-disk container format and the encrypted drawer payload it
// wraps.
//
// Run fuzz tests with:
//
//	go test -fuzz=FuzzLoadSerializedCloset -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzOpenTakeDrawer -fuzztime=30s ./test/fuzz/
//
// Run all fuzz tests sequentially:
//
//	go test -fuzz=Fuzz -fuzztime=10s ./test/fuzz/
package fuzz

import (
	"testing"

	"github.com/aeriskit/closet/pkg/closet"
)

// FuzzLoadSerializedCloset fuzzes the container parser against arbitrary
// bytes. A malformed container must always fail closed (CorruptFile or
// UnsupportedVersion), never panic.
func FuzzLoadSerializedCloset(f *testing.F) {
	sc, err := closet.New("seed passphrase")
	if err != nil {
		f.Fatalf("New: %v", err)
	}
	valid, err := sc.Save()
	if err != nil {
		f.Fatalf("Save: %v", err)
	}
	f.Add(valid)

	f.Add([]byte{})
	f.Add([]byte("CLST"))
	f.Add([]byte{'C', 'L', 'S', 'T', 0x01})
	f.Add([]byte{'C', 'L', 'S', 'T', 0xff})
	f.Add(append([]byte("XXXX"), valid[4:]...))

	f.Fuzz(func(t *testing.T, data []byte) {
		loaded, err := closet.Load(data)
		if err != nil {
			return
		}
		if loaded == nil {
			t.Fatal("Load returned nil closet with nil error")
		}
	})
}

// FuzzOpenTakeDrawer fuzzes OpenTakeDrawer against a well-formed container
// but arbitrary passphrases. No input should ever recover the seed
// passphrase's plaintext or panic the decryption/decoding path.
func FuzzOpenTakeDrawer(f *testing.F) {
	f.Add("correct horse battery staple")
	f.Add("")
	f.Add("\x00\x01\x02")

	f.Fuzz(func(t *testing.T, passphrase string) {
		sc, err := closet.New("the real passphrase")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		oc := closet.Create(sc)

		drawer, err := oc.OpenTakeDrawer(passphrase)
		if err != nil {
			return
		}
		if drawer == nil {
			t.Fatal("OpenTakeDrawer returned nil drawer with nil error")
		}
		if passphrase != "the real passphrase" {
			t.Fatalf("wrong passphrase %q unlocked a drawer", passphrase)
		}
	})
}
