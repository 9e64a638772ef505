package closet

// DrawerContent is the plaintext a drawer's ciphertext protects: its
// entries, its display settings, and a fully-serialized nested closet of
// its own. Nested is never nil; a drawer that has never had anything
// created inside it still carries an empty, all-decoy nested closet (see
// newEmptyNested), since an empty nested closet is exactly as
// indistinguishable from a populated one as any other slot on disk.
type DrawerContent struct {
	Entries  []Entry
	Settings DrawerSettings
	Nested   *SerializedCloset
}

// stripEmptyEntries removes entries with neither a name nor a value. Called
// before a drawer is sealed; entries may be empty transiently while being
// edited in memory.
func (c *DrawerContent) stripEmptyEntries() {
	kept := c.Entries[:0]
	for _, e := range c.Entries {
		if !e.IsEmpty() {
			kept = append(kept, e)
		}
	}
	c.Entries = kept
}

func (c *DrawerContent) encode() ([]byte, error) {
	w := &writer{}
	w.putVarint(uint64(len(c.Entries)))
	for _, e := range c.Entries {
		w.putBytes([]byte(e.Name))
		w.putBytes([]byte(e.Value))
	}
	w.putByte(c.Settings.encode())

	nested, err := c.Nested.encode()
	if err != nil {
		return nil, err
	}
	w.putBytes(nested)

	return w.bytes(), nil
}

func decodeContent(b []byte) (*DrawerContent, error) {
	const op = "DecodeContent"
	r := newReader(b)

	count, err := r.getVarint(op)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		name, err := r.getBytes(op)
		if err != nil {
			return nil, err
		}
		value, err := r.getBytes(op)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: string(name), Value: string(value)})
	}

	settingsByte, err := r.getByte(op)
	if err != nil {
		return nil, err
	}

	nestedBytes, err := r.getBytes(op)
	if err != nil {
		return nil, err
	}
	nested, err := decodeSerializedCloset(nestedBytes)
	if err != nil {
		return nil, err
	}

	return &DrawerContent{
		Entries:  entries,
		Settings: decodeSettings(settingsByte),
		Nested:   nested,
	}, nil
}
