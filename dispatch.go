package rsli

import (
	"golang.org/x/xerrors"

	"github.com/rsli/rsli/internal/rsli/lzhuf"
	"github.com/rsli/rsli/internal/rsli/lzss"
	"github.com/rsli/rsli/internal/rsli/rawdeflate"
	"github.com/rsli/rsli/internal/rsli/xorstream"
)

// decode implements the dispatch + loader façade's core, shared by Load
// (driven by a directory entry) and the standalone Unpack entry point
// (driven by caller-supplied parameters), per spec.md §4.7 steps 3-5.
func decode(method packMethod, packed []byte, unpackedSize, xorSize int, seed uint16, cfg Config) ([]byte, error) {
	working := packed
	if method.hasXorPrelude() {
		n := xorSize
		if n > len(packed) {
			n = len(packed)
		}
		if n < 0 {
			n = 0
		}
		tmp := make([]byte, len(packed))
		copy(tmp, packed)
		xorstream.New(seed).ApplyInPlace(tmp[:n])
		working = tmp
	}

	dst := make([]byte, unpackedSize)

	switch method.compressionFamily() {
	case methodNone:
		nCopy := copy(dst, working)
		if nCopy != unpackedSize {
			return nil, ErrUnpackedSizeMismatch
		}
		return dst, nil

	case methodLzss:
		n, err := lzss.Decode(dst, working)
		if err != nil {
			return nil, xerrors.Errorf("%w: %v", ErrLzssDecode, err)
		}
		if n != unpackedSize {
			return nil, ErrUnpackedSizeMismatch
		}
		return dst, nil

	case methodLzssHuffman:
		n, err := lzhuf.Decode(dst, working)
		if err != nil {
			return nil, xerrors.Errorf("%w: %v", ErrLzhufDecode, err)
		}
		if n != unpackedSize {
			return nil, ErrUnpackedSizeMismatch
		}
		return dst, nil

	case methodDeflate:
		n, consumed, err := rawdeflate.Decode(dst, working)
		if err != nil {
			return nil, mapDeflateErr(err)
		}
		if n != unpackedSize {
			return nil, ErrUnpackedSizeMismatch
		}
		if err := checkDeflateConsumed(consumed, len(working), cfg); err != nil {
			return nil, err
		}
		return dst, nil

	default:
		return nil, ErrUnsupportedMethod
	}
}

// checkDeflateConsumed implements the EOF+1 quirk accommodation
// (spec.md §4.6, §9): the reference engine's bit consumer sometimes
// leaves the final block's true terminator one byte short of the
// declared packed_size. Exactly one unconsumed trailing byte is
// tolerated only when the caller opted in; more than one is always an
// error, as is consuming past the declared size (which Decode can only
// do by running out of input, already reported as ErrTruncated above).
func checkDeflateConsumed(consumed, packedLen int, cfg Config) error {
	switch {
	case consumed == packedLen:
		return nil
	case consumed == packedLen-1:
		if cfg.AllowDeflateEOFPlusOne {
			return nil
		}
		return ErrDeflateEOFPlusOneQuirkRejected
	case consumed < packedLen-1:
		return ErrDeflateStreamTrailingGarbage
	default:
		return ErrDeflateStreamTruncated
	}
}

func mapDeflateErr(err error) error {
	switch {
	case xerrors.Is(err, rawdeflate.ErrBlockTypeReserved):
		return ErrDeflateBlockTypeReserved
	case xerrors.Is(err, rawdeflate.ErrLenNlenMismatch):
		return ErrDeflateLenNlenMismatch
	case xerrors.Is(err, rawdeflate.ErrCodeLengthInvalid):
		return ErrDeflateCodeLengthInvalid
	case xerrors.Is(err, rawdeflate.ErrBackReferenceRange):
		return xerrors.Errorf("%w: %v", ErrDeflateStreamTruncated, err)
	default:
		return xerrors.Errorf("%w: %v", ErrDeflateStreamTruncated, err)
	}
}

func (m packMethod) compressionFamily() packMethod {
	if m.hasXorPrelude() {
		return m &^ methodXorOnly
	}
	return m
}
