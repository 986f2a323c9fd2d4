// Package rsli reads the RsLi resource-library container: a single-file
// archive whose directory is stored at a fixed pre-header offset,
// encrypted with a self-modifying XOR keystream, and whose payloads are
// compressed with one of seven packing methods.
package rsli

import (
	"os"

	"golang.org/x/sys/unix"
)

// Library is a read-only handle over one RsLi archive: the borrowed byte
// slice, the parsed header, the resolved entry table, and the
// case-insensitive name index (spec.md §3, "Library handle"). It holds no
// interior mutability and is safe for concurrent read-only use by
// multiple goroutines, as long as none of them call Close.
type Library struct {
	data   []byte
	header Header
	dir    *directory
	cfg    Config

	mmap []byte // non-nil only when the handle owns an mmap region
}

// Open parses data as an RsLi archive. data is borrowed: the caller must
// keep it alive and unmodified for the handle's lifetime. Open performs
// no I/O; it only validates the header and decrypts/parses the directory
// (spec.md §5, "open itself does no file I/O").
func Open(data []byte, cfg Config) (*Library, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	dir, err := parseDirectory(data, h)
	if err != nil {
		return nil, err
	}
	return &Library{data: data, header: h, dir: dir, cfg: cfg}, nil
}

// OpenFile reads the named file fully into memory and opens it, giving
// the returned Library ownership of the bytes.
func OpenFile(path string, cfg Config) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Open(data, cfg)
}

// OpenMmap memory-maps f read-only and opens the mapped bytes, giving the
// returned Library ownership of the mapping. Close unmaps it. This is the
// borrowing constructor referenced in spec.md §9 ("owning vs borrowing
// byte slices"): the mapping is shared, read-only virtual memory rather
// than a private heap copy.
func OpenMmap(f *os.File, cfg Config) (*Library, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size == 0 {
		return Open(nil, cfg)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	lib, err := Open(data, cfg)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	lib.mmap = data
	return lib, nil
}

// Close releases any resources OpenMmap acquired. It is a no-op for
// handles created by Open or OpenFile.
func (l *Library) Close() error {
	if l.mmap == nil {
		return nil
	}
	m := l.mmap
	l.mmap = nil
	return unix.Munmap(m)
}

// Header returns the archive's parsed fixed header.
func (l *Library) Header() Header {
	return l.header
}

// Entries returns the archive's resolved entry table, in on-disk
// directory order (not sort order).
func (l *Library) Entries() []Entry {
	return l.dir.entries
}

// Find looks up name case-insensitively, returning its entry index.
func (l *Library) Find(name string) (int, bool) {
	return l.dir.find(name)
}

// HasTrailer reports whether the file is longer than the computed end of
// its last payload, i.e. whether an AO trailer (spec.md §6.4) may be
// present. It is informational only: the core never inspects the
// trailer's contents.
func (l *Library) HasTrailer() bool {
	end := 0
	for _, e := range l.dir.entries {
		if e := int(e.DataOffset) + int(e.PackedSize); e > end {
			end = e
		}
	}
	return len(l.data) > end
}

func (l *Library) entryAt(index int) (Entry, error) {
	if index < 0 || index >= len(l.dir.entries) {
		return Entry{}, entryErr(index, ErrIndexOutOfRange)
	}
	return l.dir.entries[index], nil
}

// slicePacked implements spec.md §4.7 loader-order step 1: slice packed
// bytes out of the file and bounds-check against the declared size.
func (l *Library) slicePacked(e Entry) ([]byte, error) {
	start := int(e.DataOffset)
	end := start + int(e.PackedSize)
	if start < 0 || end < start || end > len(l.data) {
		return nil, ErrPackedSizePastEOF
	}
	return l.data[start:end], nil
}

// LoadPacked returns the entry's raw packed bytes, a slice borrowed from
// the underlying file.
func (l *Library) LoadPacked(index int) ([]byte, error) {
	e, err := l.entryAt(index)
	if err != nil {
		return nil, err
	}
	packed, err := l.slicePacked(e)
	if err != nil {
		return nil, entryErr(index, err)
	}
	return packed, nil
}

// Load decompresses the entry at index, returning newly allocated bytes
// of length e.UnpackedSize.
func (l *Library) Load(index int) ([]byte, error) {
	e, err := l.entryAt(index)
	if err != nil {
		return nil, err
	}
	m := e.method()
	if !isRecognizedMethod(m) {
		return nil, entryErr(index, ErrUnsupportedMethod)
	}
	packed, err := l.slicePacked(e)
	if err != nil {
		return nil, entryErr(index, err)
	}
	out, err := decode(m, packed, int(e.UnpackedSize), int(e.PackedSize), e.xorSeed(), l.cfg)
	if err != nil {
		return nil, entryErr(index, err)
	}
	return out, nil
}

// LoadInto decompresses the entry at index into buf, which must be at
// least e.UnpackedSize bytes long, returning the number of bytes written.
// Bytes in buf beyond that count are left untouched.
func (l *Library) LoadInto(index int, buf []byte) (int, error) {
	e, err := l.entryAt(index)
	if err != nil {
		return 0, err
	}
	if len(buf) < int(e.UnpackedSize) {
		return 0, entryErr(index, ErrBufferTooSmall)
	}
	out, err := l.Load(index)
	if err != nil {
		return 0, err
	}
	copy(buf, out)
	return len(out), nil
}

// LoadFast returns the entry's bytes with a zero-copy fast path for
// method None: the returned slice borrows directly from the file. Every
// other method falls back to Load. The optimization is advisory per
// spec.md §4.7; callers must not assume a particular slice identity.
func (l *Library) LoadFast(index int) ([]byte, error) {
	e, err := l.entryAt(index)
	if err != nil {
		return nil, err
	}
	if e.method() == methodNone {
		return l.LoadPacked(index)
	}
	return l.Load(index)
}

// Unpack decompresses an independently supplied packed payload, outside
// of any directory entry (spec.md §4.7). method is the raw pack_method
// value (including, where applicable, its XOR bit); seed is the
// keystream seed for any XOR prelude.
func Unpack(packed []byte, method uint16, unpackedSize, xorSize int, seed uint16) ([]byte, error) {
	m := packMethod(method) & methodMask
	if !isRecognizedMethod(m) {
		return nil, ErrUnsupportedMethod
	}
	return decode(m, packed, unpackedSize, xorSize, seed, Config{AllowDeflateEOFPlusOne: true})
}

func isRecognizedMethod(m packMethod) bool {
	switch m {
	case methodNone, methodXorOnly, methodLzss, methodXorLzss,
		methodLzssHuffman, methodXorLzssHuffman, methodDeflate:
		return true
	default:
		return false
	}
}
