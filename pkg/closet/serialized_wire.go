package closet

import (
	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
)

// encodeFile serializes sc as a complete, self-describing container: magic,
// format version, salt, KDF profile byte, slot count, and per-slot
// nonce/ciphertext, each length-prefixed. Used both for the top-level file
// and for a drawer's fully-serialized nested closet (see DrawerContent).
func (sc *SerializedCloset) encodeFile() ([]byte, error) {
	w := &writer{}
	w.buf = append(w.buf, []byte(constants.Magic)...)
	w.putByte(byte(constants.FormatVersion))
	w.putBytes(sc.Salt)
	w.putByte(byte(sc.Profile))
	w.putVarint(uint64(len(sc.Slots)))
	for _, s := range sc.Slots {
		w.putBytes(s.Nonce)
		w.putBytes(s.Ciphertext)
	}
	return w.bytes(), nil
}

// encode is an alias for encodeFile used when a SerializedCloset is nested
// inside a DrawerContent; the format is identical at every nesting depth.
func (sc *SerializedCloset) encode() ([]byte, error) {
	return sc.encodeFile()
}

func decodeSerializedClosetFile(data []byte) (*SerializedCloset, error) {
	const op = "Load"

	if len(data) < len(constants.Magic)+1 {
		return nil, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}
	if string(data[:len(constants.Magic)]) != constants.Magic {
		return nil, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}

	r := newReader(data[len(constants.Magic):])

	version, err := r.getByte(op)
	if err != nil {
		return nil, err
	}
	if version != constants.FormatVersion {
		return nil, closeterr.New(closeterr.KindUnsupportedVersion, op, nil)
	}

	salt, err := r.getBytes(op)
	if err != nil {
		return nil, err
	}
	if len(salt) != constants.SaltSize {
		return nil, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}

	profileByte, err := r.getByte(op)
	if err != nil {
		return nil, err
	}
	profile := constants.KDFProfile(profileByte)
	if !profile.IsSupported() {
		return nil, closeterr.New(closeterr.KindUnsupportedVersion, op, nil)
	}

	slotCount, err := r.getVarint(op)
	if err != nil {
		return nil, err
	}

	// Every slot takes at least two bytes (its two length prefixes), so a
	// count beyond that is malformed; checking first keeps the allocation
	// below bounded by the input size.
	if slotCount > uint64(r.remaining())/2 {
		return nil, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}
	slots := make([]ClosedDrawer, 0, slotCount)
	for i := uint64(0); i < slotCount; i++ {
		nonce, err := r.getBytes(op)
		if err != nil {
			return nil, err
		}
		ciphertext, err := r.getBytes(op)
		if err != nil {
			return nil, err
		}
		slots = append(slots, ClosedDrawer{Nonce: nonce, Ciphertext: ciphertext})
	}

	if r.remaining() != 0 {
		return nil, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}

	return &SerializedCloset{
		Salt:    salt,
		Profile: profile,
		Slots:   slots,
		free:    make([]bool, len(slots)),
	}, nil
}

// decodeSerializedCloset is an alias for decodeSerializedClosetFile used
// when decoding a drawer's nested closet from its DrawerContent.
func decodeSerializedCloset(data []byte) (*SerializedCloset, error) {
	return decodeSerializedClosetFile(data)
}
