package closet

import (
	"bytes"
	"testing"

	"github.com/aeriskit/closet/internal/closeterr"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	sc, err := New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc := Create(sc)

	if !oc.IsJustCreated() {
		t.Fatalf("expected IsJustCreated to be true before first save")
	}

	drawer, err := oc.OpenTakeDrawer("alpha")
	if err != nil {
		t.Fatalf("OpenTakeDrawer: %v", err)
	}
	drawer.Content.Entries = append(drawer.Content.Entries, Entry{Name: "email", Value: "a@b"})

	if err := oc.PushBack(drawer); err != nil {
		t.Fatalf("PushBack: %v", err)
	}

	data, err := oc.CloseAndSave()
	if err != nil {
		t.Fatalf("CloseAndSave: %v", err)
	}
	if oc.IsJustCreated() {
		t.Fatalf("expected IsJustCreated to be false after save")
	}

	reloaded, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	oc2 := Create(reloaded)

	drawer2, err := oc2.OpenTakeDrawer("alpha")
	if err != nil {
		t.Fatalf("OpenTakeDrawer after reload: %v", err)
	}
	if len(drawer2.Content.Entries) != 1 || drawer2.Content.Entries[0] != (Entry{Name: "email", Value: "a@b"}) {
		t.Fatalf("got entries %+v, want [{email a@b}]", drawer2.Content.Entries)
	}
}

func TestWrongPassphraseLeavesFileUnchanged(t *testing.T) {
	sc, err := New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc := Create(sc)
	data1, err := oc.CloseAndSave()
	if err != nil {
		t.Fatalf("CloseAndSave: %v", err)
	}

	reloaded, err := Load(data1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	oc2 := Create(reloaded)
	if _, err := oc2.OpenTakeDrawer("beta"); !closeterr.Is(err, closeterr.ErrAead) {
		t.Fatalf("expected ErrAead for wrong passphrase, got %v", err)
	}

	data2, err := reloaded.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !bytes.Equal(data1, data2) {
		t.Fatalf("container bytes changed after a failed open")
	}
}

func TestDuplicatePassphraseDetected(t *testing.T) {
	sc, err := New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc := Create(sc)

	if _, err := oc.CreateTakeDrawer("alpha"); !closeterr.Is(err, closeterr.ErrDuplicatePassphrase) {
		t.Fatalf("expected ErrDuplicatePassphrase, got %v", err)
	}
}

func TestChangePasswordRejectsDuplicate(t *testing.T) {
	sc, err := New("p1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc := Create(sc)

	d1, err := oc.OpenTakeDrawer("p1")
	if err != nil {
		t.Fatalf("OpenTakeDrawer: %v", err)
	}
	if err := oc.PushBack(d1); err != nil {
		t.Fatalf("PushBack: %v", err)
	}

	d2, err := oc.CreateTakeDrawer("p2")
	if err != nil {
		t.Fatalf("CreateTakeDrawer: %v", err)
	}

	if err := oc.ChangePassword(d2, "p1"); !closeterr.Is(err, closeterr.ErrDuplicatePassphrase) {
		t.Fatalf("expected ErrDuplicatePassphrase, got %v", err)
	}

	if err := oc.ChangePassword(d2, "p2b"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if err := oc.PushBack(d2); err != nil {
		t.Fatalf("PushBack: %v", err)
	}

	if _, err := oc.OpenTakeDrawer("p2"); !closeterr.Is(err, closeterr.ErrAead) {
		t.Fatalf("expected old passphrase to no longer open anything, got %v", err)
	}
	d2b, err := oc.OpenTakeDrawer("p2b")
	if err != nil {
		t.Fatalf("OpenTakeDrawer with new passphrase: %v", err)
	}
	if err := oc.PushBack(d2b); err != nil {
		t.Fatalf("PushBack: %v", err)
	}
}

func TestNestedDrawerSurvivesReload(t *testing.T) {
	sc, err := New("p1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc := Create(sc)

	outer, err := oc.OpenTakeDrawer("p1")
	if err != nil {
		t.Fatalf("OpenTakeDrawer: %v", err)
	}
	if err := oc.OpenNestedCloset(outer); err != nil {
		t.Fatalf("OpenNestedCloset: %v", err)
	}

	inner, err := oc.CreateTakeDrawer("n1")
	if err != nil {
		t.Fatalf("CreateTakeDrawer (nested): %v", err)
	}
	inner.Content.Entries = append(inner.Content.Entries, Entry{Name: "pin", Value: "1234"})
	if err := oc.PushBack(inner); err != nil {
		t.Fatalf("PushBack (nested): %v", err)
	}

	if err := oc.CloseDeepestDrawer(); err != nil {
		t.Fatalf("CloseDeepestDrawer: %v", err)
	}
	if err := oc.PushBack(outer); err != nil {
		t.Fatalf("PushBack (outer): %v", err)
	}

	data, err := oc.CloseAndSave()
	if err != nil {
		t.Fatalf("CloseAndSave: %v", err)
	}

	reloaded, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	oc2 := Create(reloaded)
	outer2, err := oc2.OpenTakeDrawer("p1")
	if err != nil {
		t.Fatalf("OpenTakeDrawer after reload: %v", err)
	}
	if err := oc2.OpenNestedCloset(outer2); err != nil {
		t.Fatalf("OpenNestedCloset after reload: %v", err)
	}
	inner2, err := oc2.OpenTakeDrawer("n1")
	if err != nil {
		t.Fatalf("OpenTakeDrawer (nested) after reload: %v", err)
	}
	if len(inner2.Content.Entries) != 1 || inner2.Content.Entries[0] != (Entry{Name: "pin", Value: "1234"}) {
		t.Fatalf("got entries %+v, want [{pin 1234}]", inner2.Content.Entries)
	}
}

func TestCapacityGrowsOnDemand(t *testing.T) {
	sc, err := New("seed")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc := Create(sc)

	initialSlots := len(sc.Slots)

	for i := 0; i < initialSlots+5; i++ {
		d, err := oc.CreateTakeDrawer(passphraseFor(i))
		if err != nil {
			t.Fatalf("CreateTakeDrawer(%d): %v", i, err)
		}
		if err := oc.PushBack(d); err != nil {
			t.Fatalf("PushBack(%d): %v", i, err)
		}
	}

	if _, err := oc.CloseAndSave(); err != nil {
		t.Fatalf("CloseAndSave: %v", err)
	}

	if len(sc.Slots) <= initialSlots {
		t.Fatalf("expected slot capacity to grow beyond %d, got %d", initialSlots, len(sc.Slots))
	}
}

func passphraseFor(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	return "pw-" + string(alphabet[i%len(alphabet)]) + string(rune('0'+i%10))
}
