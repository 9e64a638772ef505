// Package closet implements the closet/drawer data model: entries, drawer
// content and settings, closed (encrypted) and open (plaintext) drawers, the
// on-disk serialized container, its padding and decoy scheme, and the
// runtime OpenCloset that mediates access to it.
package closet

// Entry is a single name/value pair inside a drawer. Order among a drawer's
// entries is significant and preserved; duplicate names are permitted.
type Entry struct {
	Name  string
	Value string
}

// IsEmpty reports whether e has neither a name nor a value. Empty entries
// may exist transiently while a drawer is being edited but are stripped
// before a drawer is sealed.
func (e Entry) IsEmpty() bool {
	return e.Name == "" && e.Value == ""
}
