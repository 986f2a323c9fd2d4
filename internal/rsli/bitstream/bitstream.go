// Package bitstream implements a lazy, LSB-first bit reader over an
// immutable byte slice, as used by the LZSS, LZHUF and raw-DEFLATE kernels.
package bitstream

import "golang.org/x/xerrors"

// ErrUnexpectedEOF is returned when a read would advance past the end of the
// underlying slice.
var ErrUnexpectedEOF = xerrors.New("bitstream: unexpected end of input")

// Reader is a bit cursor layered over a byte cursor. Bits are consumed
// least-significant-bit first within each byte; the byte cursor advances
// once the current byte's 8 bits are drained.
type Reader struct {
	data []byte
	pos  int // next unread byte index in data

	bitBuf uint32 // buffered bits, LSB-aligned
	nBits  uint   // number of valid bits in bitBuf
}

// New returns a Reader positioned at the start of data. data is not copied;
// the caller must keep it alive and unmodified for the Reader's lifetime.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// fill ensures at least n bits (n <= 24) are buffered, or returns
// ErrUnexpectedEOF if the underlying slice is exhausted first.
func (r *Reader) fill(n uint) error {
	for r.nBits < n {
		if r.pos >= len(r.data) {
			return ErrUnexpectedEOF
		}
		r.bitBuf |= uint32(r.data[r.pos]) << r.nBits
		r.pos++
		r.nBits += 8
	}
	return nil
}

// ReadBit reads a single bit (0 or 1).
func (r *Reader) ReadBit() (uint32, error) {
	if err := r.fill(1); err != nil {
		return 0, err
	}
	bit := r.bitBuf & 1
	r.bitBuf >>= 1
	r.nBits--
	return bit, nil
}

// ReadBits reads n bits, 1 <= n <= 24, composing them LSB-first.
func (r *Reader) ReadBits(n uint) (uint32, error) {
	if n < 1 || n > 24 {
		panic("bitstream: ReadBits n out of range")
	}
	if err := r.fill(n); err != nil {
		return 0, err
	}
	v := r.bitBuf & ((1 << n) - 1)
	r.bitBuf >>= n
	r.nBits -= n
	return v, nil
}

// AlignToByte discards any partially-consumed byte, required before reading
// a DEFLATE stored block's LEN/NLEN pair.
func (r *Reader) AlignToByte() {
	discard := r.nBits % 8
	r.bitBuf >>= discard
	r.nBits -= discard
}

// ReadU8 reads one byte-aligned-or-not bit-bucket byte (8 bits via the bit
// engine, so it respects any partially consumed byte).
func (r *Reader) ReadU8() (byte, error) {
	v, err := r.ReadBits(8)
	return byte(v), err
}

// ReadLEU16 reads a little-endian 16-bit word through the bit engine.
func (r *Reader) ReadLEU16() (uint16, error) {
	v, err := r.ReadBits(16)
	return uint16(v), err
}

// ReadLEU32 reads a little-endian 32-bit word through the bit engine, as two
// 16-bit halves (ReadBits is capped at 24 bits).
func (r *Reader) ReadLEU32() (uint32, error) {
	lo, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	hi, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	return lo | hi<<16, nil
}

// PeekBits returns the next n bits (1 <= n <= 24) without consuming them.
func (r *Reader) PeekBits(n uint) (uint32, error) {
	if n < 1 || n > 24 {
		panic("bitstream: PeekBits n out of range")
	}
	if err := r.fill(n); err != nil {
		return 0, err
	}
	return r.bitBuf & ((1 << n) - 1), nil
}

// SkipBits discards n previously peeked bits (n must not exceed BitOffset()).
func (r *Reader) SkipBits(n uint) {
	r.bitBuf >>= n
	r.nBits -= n
}

// PeekByte returns the k-th byte-aligned byte ahead of the current read
// position without consuming it. It only works correctly when no bits are
// buffered (BitOffset() == 0); AlignToByte alone does not guarantee that,
// since it keeps any whole bytes already pulled. ok is false if that byte
// lies past the end of data.
func (r *Reader) PeekByte(k int) (b byte, ok bool) {
	idx := r.pos + k
	if idx < 0 || idx >= len(r.data) {
		return 0, false
	}
	return r.data[idx], true
}

// BytePos returns the number of whole bytes consumed from the underlying
// slice, i.e. the byte cursor's current position. Any bits buffered past a
// byte boundary that have not yet been consumed via ReadBit/ReadBits are
// still counted as consumed by the byte cursor; BitOffset reports how many
// of the buffered bits remain unread.
func (r *Reader) BytePos() int {
	return r.pos
}

// BitOffset returns the number of valid, unread bits currently buffered.
func (r *Reader) BitOffset() uint {
	return r.nBits
}

// Consumed reports the logical stream position: the byte offset the bit
// engine has truly consumed. A byte counts as consumed only once all of
// its bits have been read; PeekBits can leave more than one pulled byte
// buffered, so every byte still holding unread bits is subtracted.
func (r *Reader) Consumed() int {
	return r.pos - int((r.nBits+7)/8)
}

// Len returns the length of the underlying slice.
func (r *Reader) Len() int {
	return len(r.data)
}
