package rawdeflate

import "golang.org/x/xerrors"

// Sentinel errors for the raw-DEFLATE kernel, per spec.md §4.6/§7. The
// container-level accommodation for the EOF+1 quirk lives above this
// package (dispatch.go compares the consumed byte count Decode reports
// against the entry's declared packed_size); this package only reports
// truncation and malformed-table conditions it can detect on its own.
var (
	ErrTruncated          = xerrors.New("rawdeflate: stream truncated")
	ErrTrailingGarbage    = xerrors.New("rawdeflate: trailing garbage after final block")
	ErrBlockTypeReserved  = xerrors.New("rawdeflate: reserved block type")
	ErrLenNlenMismatch    = xerrors.New("rawdeflate: stored block LEN/NLEN mismatch")
	ErrCodeLengthInvalid  = xerrors.New("rawdeflate: invalid Huffman code lengths")
	ErrBackReferenceRange = xerrors.New("rawdeflate: back-reference distance exceeds history window")
)
