package closet

import (
	"testing"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
)

func TestNewProducesMinimumSlotsAndOneRealDrawer(t *testing.T) {
	sc, err := New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(sc.Slots) != constants.MinSlots {
		t.Fatalf("got %d slots, want %d", len(sc.Slots), constants.MinSlots)
	}

	_, _, found := sc.findSlot("alpha")
	if !found {
		t.Fatalf("expected passphrase used at creation to open a slot")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	if _, err := Load([]byte("NOTCLST!!!!")); !closeterr.Is(err, closeterr.ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	sc, err := New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data, err := sc.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	versionOffset := len(constants.Magic)
	data[versionOffset] = 0xFE

	if _, err := Load(data); !closeterr.Is(err, closeterr.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestSaveLoadByteLengthDeterminedByBuckets(t *testing.T) {
	sc, err := New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data1, err := sc.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	sc2, err := Load(data1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	data2, err := sc2.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(data1) != len(data2) {
		t.Fatalf("round-tripped save length changed: %d vs %d", len(data1), len(data2))
	}
}
