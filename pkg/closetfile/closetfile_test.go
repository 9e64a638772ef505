package closetfile

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSaveAndReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.closet")
	data := []byte("some closet bytes")

	if err := Save(path, data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(path) {
		t.Fatalf("expected file to exist after Save")
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("Read() = %q, want %q", got, data)
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.closet")
	if err := Save(path, []byte("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Save(path, []byte("second")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("Read() = %q, want %q", got, "second")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error reading a missing file")
	}
}
