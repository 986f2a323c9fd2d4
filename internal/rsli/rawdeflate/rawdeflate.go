// Package rawdeflate implements the RsLi raw-DEFLATE kernel (pack method
// 0x100): RFC 1951 DEFLATE with no zlib wrapper and no Adler32, decoded
// directly into a caller-provided buffer.
package rawdeflate

import (
	"golang.org/x/xerrors"

	"github.com/rsli/rsli/internal/rsli/bitstream"
)

const (
	btypeStored  = 0
	btypeFixed   = 1
	btypeDynamic = 2
	btypeInvalid = 3
)

// Decode decompresses packed into dst, decoding blocks until the one marked
// BFINAL has ended even once dst is full; output past len(dst) is
// discarded. It returns the number of bytes written to dst (n, at most
// len(dst)) and the number of bytes of packed actually consumed by the bit
// reader up to the end of the final block (consumed) — the latter lets
// the caller apply the EOF+1 quirk accommodation (spec.md §4.6) by
// comparing consumed against the entry's declared packed_size.
func Decode(dst, packed []byte) (n int, consumed int, err error) {
	br := bitstream.New(packed)

	var window [windowSize]byte
	cursor := 0
	out := 0

	emit := func(b byte) {
		if out < len(dst) {
			dst[out] = b
			out++
		}
		window[cursor&windowMask] = b
		cursor++
	}

	copyMatch := func(dist, length int) error {
		if dist <= 0 || dist > cursor {
			return ErrBackReferenceRange
		}
		src := (cursor - dist) & windowMask
		for i := 0; i < length; i++ {
			b := window[src]
			emit(b)
			src = (src + 1) & windowMask
		}
		return nil
	}

	for len(packed) > 0 || len(dst) > 0 {
		bfinal, err := br.ReadBit()
		if err != nil {
			return out, br.Consumed(), xerrors.Errorf("%w: %v", ErrTruncated, err)
		}
		btype, err := br.ReadBits(2)
		if err != nil {
			return out, br.Consumed(), xerrors.Errorf("%w: %v", ErrTruncated, err)
		}

		switch btype {
		case btypeStored:
			if err := decodeStored(br, emit, len(dst), &out); err != nil {
				return out, br.Consumed(), err
			}
		case btypeFixed:
			if err := decodeHuffmanBlock(br, fixedLit, fixedDist, emit, copyMatch, len(dst), &out); err != nil {
				return out, br.Consumed(), err
			}
		case btypeDynamic:
			litDec, distDec, err := readDynamicTables(br)
			if err != nil {
				return out, br.Consumed(), err
			}
			if err := decodeHuffmanBlock(br, litDec, distDec, emit, copyMatch, len(dst), &out); err != nil {
				return out, br.Consumed(), err
			}
		default:
			return out, br.Consumed(), ErrBlockTypeReserved
		}

		if bfinal == 1 {
			break
		}
	}

	br.AlignToByte()
	return out, br.Consumed(), nil
}

func decodeStored(br *bitstream.Reader, emit func(byte), want int, out *int) error {
	br.AlignToByte()
	lenLo, err := br.ReadU8()
	if err != nil {
		return xerrors.Errorf("%w: %v", ErrTruncated, err)
	}
	lenHi, err := br.ReadU8()
	if err != nil {
		return xerrors.Errorf("%w: %v", ErrTruncated, err)
	}
	nlenLo, err := br.ReadU8()
	if err != nil {
		return xerrors.Errorf("%w: %v", ErrTruncated, err)
	}
	nlenHi, err := br.ReadU8()
	if err != nil {
		return xerrors.Errorf("%w: %v", ErrTruncated, err)
	}
	length := int(lenLo) | int(lenHi)<<8
	nlength := int(nlenLo) | int(nlenHi)<<8
	if length != nlength^0xFFFF {
		return ErrLenNlenMismatch
	}
	for i := 0; i < length; i++ {
		b, err := br.ReadU8()
		if err != nil {
			return xerrors.Errorf("%w: %v", ErrTruncated, err)
		}
		emit(b)
	}
	return nil
}

func decodeHuffmanBlock(br *bitstream.Reader, litDec, distDec *huffmanDecoder, emit func(byte), copyMatch func(dist, length int) error, want int, out *int) error {
	for {
		sym, err := litDec.decode(br)
		if err != nil {
			return xerrors.Errorf("%w: %v", ErrTruncated, err)
		}
		if sym < 256 {
			emit(byte(sym))
			continue
		}
		if sym == endOfBlock {
			return nil
		}
		li := sym - 257
		if li < 0 || li >= len(lengthBase) {
			return ErrCodeLengthInvalid
		}
		length := lengthBase[li]
		if lengthExtra[li] > 0 {
			extra, err := br.ReadBits(lengthExtra[li])
			if err != nil {
				return xerrors.Errorf("%w: %v", ErrTruncated, err)
			}
			length += int(extra)
		}

		dsym, err := distDec.decode(br)
		if err != nil {
			return xerrors.Errorf("%w: %v", ErrTruncated, err)
		}
		if dsym < 0 || dsym >= len(distBase) {
			return ErrCodeLengthInvalid
		}
		dist := distBase[dsym]
		if distExtra[dsym] > 0 {
			extra, err := br.ReadBits(distExtra[dsym])
			if err != nil {
				return xerrors.Errorf("%w: %v", ErrTruncated, err)
			}
			dist += int(extra)
		}

		if err := copyMatch(dist, length); err != nil {
			return err
		}
	}
}

// readDynamicTables decodes a dynamic block's header (HLIT/HDIST/HCLEN,
// the code-length alphabet, then the literal/length and distance code
// length vectors) and builds the two resulting Huffman decoders, per
// RFC 1951 §3.2.7.
func readDynamicTables(br *bitstream.Reader) (lit, dist *huffmanDecoder, err error) {
	hlit, err := br.ReadBits(5)
	if err != nil {
		return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
	}
	hdist, err := br.ReadBits(5)
	if err != nil {
		return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
	}
	hclen, err := br.ReadBits(4)
	if err != nil {
		return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
	}

	var clLengths [19]int
	for i := 0; i < int(hclen)+4; i++ {
		v, err := br.ReadBits(3)
		if err != nil {
			return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}
	clDec, err := buildHuffmanDecoder(clLengths[:])
	if err != nil {
		return nil, nil, err
	}

	total := int(hlit) + 257 + int(hdist) + 1
	lengths := make([]int, total)
	i := 0
	for i < total {
		sym, err := clDec.decode(br)
		if err != nil {
			return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
		}
		switch {
		case sym < 16:
			lengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return nil, nil, ErrCodeLengthInvalid
			}
			n, err := br.ReadBits(2)
			if err != nil {
				return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
			}
			prev := lengths[i-1]
			for r := 0; r < int(n)+3 && i < total; r++ {
				lengths[i] = prev
				i++
			}
		case sym == 17:
			n, err := br.ReadBits(3)
			if err != nil {
				return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
			}
			i += int(n) + 3
		case sym == 18:
			n, err := br.ReadBits(7)
			if err != nil {
				return nil, nil, xerrors.Errorf("%w: %v", ErrTruncated, err)
			}
			i += int(n) + 11
		default:
			return nil, nil, ErrCodeLengthInvalid
		}
	}
	if i > total {
		return nil, nil, ErrCodeLengthInvalid
	}

	litLengths := lengths[:hlit+257]
	distLengths := lengths[hlit+257:]

	lit, err = buildHuffmanDecoder(litLengths)
	if err != nil {
		return nil, nil, err
	}
	dist, err = buildHuffmanDecoder(distLengths)
	if err != nil {
		return nil, nil, err
	}
	return lit, dist, nil
}
