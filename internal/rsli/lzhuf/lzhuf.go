// Package lzhuf implements the RsLi LZHUF kernel (pack methods 0x080 and
// 0x0A0): an LZSS-family sliding-window matcher whose literals and copy
// lengths share one alphabet entropy-coded with an adaptive Huffman tree, and
// whose copy distances are split into a 6-bit static-Huffman prefix and a
// 6-bit raw suffix, per spec.md §4.5.
package lzhuf

import (
	"golang.org/x/xerrors"

	"github.com/rsli/rsli/internal/rsli/bitstream"
)

const (
	windowSize    = 4096
	windowMask    = windowSize - 1
	windowFill    = 4078
	fillByte      = 0x20
	minMatchLen   = 3
	lengthSymBase = 256
)

// ErrMalformedStream is returned when the bitstream runs out before dst is
// filled.
var ErrMalformedStream = xerrors.New("lzhuf: malformed stream")

// Decode decompresses packed into dst, returning the number of bytes
// written (always len(dst) on success).
func Decode(dst, packed []byte) (int, error) {
	r := bitstream.New(packed)
	next := func() (uint32, error) { return r.ReadBit() }

	t := newTree()

	var window [windowSize]byte
	for i := 0; i < windowFill; i++ {
		window[i] = fillByte
	}
	cursor := windowFill

	emit := func(b byte, out int) {
		dst[out] = b
		window[cursor] = b
		cursor = (cursor + 1) & windowMask
	}

	out := 0
	for out < len(dst) {
		symbol, err := t.decodeSymbol(next)
		if err != nil {
			return out, xerrors.Errorf("%w: %v", ErrMalformedStream, err)
		}
		if symbol < lengthSymBase {
			emit(byte(symbol), out)
			out++
			t.update(symbol)
			continue
		}

		length := symbol - lengthSymBase + minMatchLen

		prefix, err := decodeDistancePrefix(next)
		if err != nil {
			return out, xerrors.Errorf("%w: %v", ErrMalformedStream, err)
		}
		suffix, err := r.ReadBits(6)
		if err != nil {
			return out, xerrors.Errorf("%w: %v", ErrMalformedStream, err)
		}
		distance := prefix<<6 | int(suffix)
		matchPos := (cursor - distance - 1) & windowMask

		for i := 0; i < length && out < len(dst); i++ {
			b := window[(matchPos+i)&windowMask]
			emit(b, out)
			out++
		}
		t.update(symbol)
	}
	return out, nil
}
