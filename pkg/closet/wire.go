// wire.go implements the low-level length-prefixed encoding shared by every
// structure in this package: varint-prefixed byte strings, in the style of
// the teacher's protocol codec, but using unsigned LEB128 varints
// (encoding/binary.{Uvarint,PutUvarint}) rather than fixed-width lengths.
package closet

import (
	"encoding/binary"

	"github.com/aeriskit/closet/internal/closeterr"
)

// writer accumulates an encoded byte sequence.
type writer struct {
	buf []byte
}

func (w *writer) putVarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

func (w *writer) putBytes(b []byte) {
	w.putVarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *writer) putByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *writer) bytes() []byte {
	return w.buf
}

// reader consumes an encoded byte sequence, reporting CorruptFile on any
// out-of-bounds access instead of panicking.
type reader struct {
	buf []byte
	pos int
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) getVarint(op string) (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}
	r.pos += n
	return v, nil
}

func (r *reader) getBytes(op string) ([]byte, error) {
	n, err := r.getVarint(op)
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.buf)-r.pos) {
		return nil, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) getByte(op string) (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, closeterr.New(closeterr.KindCorruptFile, op, nil)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// remaining reports how many bytes of the buffer the reader has not yet
// consumed.
func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}
