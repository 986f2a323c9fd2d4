package rsli

import "golang.org/x/xerrors"

// Error kinds, one sentinel per taxonomy entry from the format's error
// model. Use errors.Is (or xerrors.Is) to test a wrapped error against one
// of these; EntryError additionally carries the offending entry's index.
var (
	ErrInvalidMagic       = xerrors.New("rsli: invalid magic")
	ErrUnsupportedVersion = xerrors.New("rsli: unsupported version")

	ErrEntryTableOutOfBounds = xerrors.New("rsli: entry table out of bounds")
	ErrPackedSizePastEOF     = xerrors.New("rsli: packed data past end of file")

	ErrUnsupportedMethod = xerrors.New("rsli: unsupported pack method")
	ErrBufferTooSmall    = xerrors.New("rsli: destination buffer too small")

	ErrUnpackedSizeMismatch = xerrors.New("rsli: unpacked size mismatch")

	ErrLzssDecode  = xerrors.New("rsli: malformed LZSS stream")
	ErrLzhufDecode = xerrors.New("rsli: malformed LZHUF stream")

	ErrDeflateStreamTruncated         = xerrors.New("rsli: DEFLATE stream truncated")
	ErrDeflateStreamTrailingGarbage   = xerrors.New("rsli: DEFLATE stream has trailing garbage")
	ErrDeflateEOFPlusOneQuirkRejected = xerrors.New("rsli: DEFLATE stream ends one byte before packed size and the EOF+1 quirk is disabled")
	ErrDeflateBlockTypeReserved       = xerrors.New("rsli: DEFLATE block uses the reserved block type")
	ErrDeflateLenNlenMismatch         = xerrors.New("rsli: DEFLATE stored block LEN/NLEN mismatch")
	ErrDeflateCodeLengthInvalid       = xerrors.New("rsli: DEFLATE code-length Huffman tree is invalid")

	ErrUnexpectedEOF = xerrors.New("rsli: unexpected end of input")

	// ErrNameNotFound is returned by operations that look an entry up by
	// name when no entry matches.
	ErrNameNotFound = xerrors.New("rsli: name not found")

	// ErrIndexOutOfRange is returned when an entry index falls outside
	// the archive's entry table.
	ErrIndexOutOfRange = xerrors.New("rsli: entry index out of range")
)

// EntryError wraps one of the sentinel errors above with the index of the
// entry that triggered it, so callers can locate the fault (spec.md §7).
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return xerrors.Errorf("entry %d: %w", e.Index, e.Err).Error()
}

func (e *EntryError) Unwrap() error { return e.Err }

func entryErr(index int, err error) error {
	return &EntryError{Index: index, Err: err}
}
