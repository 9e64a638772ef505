package closet

import "testing"

func TestContentEncodeDecodeRoundTrip(t *testing.T) {
	content := &DrawerContent{
		Entries: []Entry{
			{Name: "email", Value: "a@b"},
			{Name: "note", Value: "hello"},
		},
		Settings: DrawerSettings{HideValues: true},
		Nested:   newEmptyNested(),
	}

	encoded, err := content.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := decodeContent(encoded)
	if err != nil {
		t.Fatalf("decodeContent: %v", err)
	}

	if len(decoded.Entries) != 2 || decoded.Entries[0] != content.Entries[0] || decoded.Entries[1] != content.Entries[1] {
		t.Fatalf("got entries %+v, want %+v", decoded.Entries, content.Entries)
	}
	if decoded.Settings != content.Settings {
		t.Fatalf("got settings %+v, want %+v", decoded.Settings, content.Settings)
	}
	if len(decoded.Nested.Slots) != len(content.Nested.Slots) {
		t.Fatalf("nested slot count = %d, want %d", len(decoded.Nested.Slots), len(content.Nested.Slots))
	}
}

func TestStripEmptyEntries(t *testing.T) {
	content := &DrawerContent{
		Entries: []Entry{
			{Name: "a", Value: "1"},
			{},
			{Name: "", Value: ""},
			{Name: "b", Value: "2"},
		},
	}
	content.stripEmptyEntries()
	if len(content.Entries) != 2 {
		t.Fatalf("got %d entries after stripping, want 2: %+v", len(content.Entries), content.Entries)
	}
}

func TestDecodeContentRejectsTruncatedInput(t *testing.T) {
	if _, err := decodeContent([]byte{0xFF}); err == nil {
		t.Fatalf("expected error decoding truncated content")
	}
}
