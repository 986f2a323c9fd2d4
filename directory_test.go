package rsli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDirectoryRebuildsSortIndexWhenUntrusted(t *testing.T) {
	t.Parallel()
	archive := buildArchive(0x1111, []entrySpec{
		{name: "ZEBRA", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x41}},
		{name: "APPLE", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x42}},
	})
	h, err := parseHeader(archive)
	if err != nil {
		t.Fatal(err)
	}
	dir, err := parseDirectory(archive, h)
	if err != nil {
		t.Fatal(err)
	}
	// "APPLE" < "ZEBRA" case-insensitively; since no trustworthy stored
	// indices were present (both sortIndex fields were left zero), the
	// rank must be rebuilt from scratch.
	if dir.entries[0].Name != "ZEBRA" || dir.entries[0].SortIndex != 2 {
		t.Fatalf("entries[0] = %+v, want ZEBRA with SortIndex 2", dir.entries[0])
	}
	if dir.entries[1].Name != "APPLE" || dir.entries[1].SortIndex != 1 {
		t.Fatalf("entries[1] = %+v, want APPLE with SortIndex 1", dir.entries[1])
	}
}

func TestParseDirectoryTrustsConsistentStoredSortIndex(t *testing.T) {
	t.Parallel()
	archive := buildArchive(0x2222, []entrySpec{
		{name: "ZEBRA", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x41}, sortIndex: 2},
		{name: "APPLE", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x42}, sortIndex: 1},
	})
	h, err := parseHeader(archive)
	if err != nil {
		t.Fatal(err)
	}
	dir, err := parseDirectory(archive, h)
	if err != nil {
		t.Fatal(err)
	}
	if dir.entries[0].SortIndex != 2 || dir.entries[1].SortIndex != 1 {
		t.Fatalf("stored sort indices were not trusted: got %d, %d", dir.entries[0].SortIndex, dir.entries[1].SortIndex)
	}
}

func TestParseDirectoryRebuildsOnInconsistentStoredSortIndex(t *testing.T) {
	t.Parallel()
	// Stored indices form a valid permutation but do not match actual
	// name order, so they must be rejected and rebuilt.
	archive := buildArchive(0x3333, []entrySpec{
		{name: "ZEBRA", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x41}, sortIndex: 1},
		{name: "APPLE", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x42}, sortIndex: 2},
	})
	h, err := parseHeader(archive)
	if err != nil {
		t.Fatal(err)
	}
	dir, err := parseDirectory(archive, h)
	if err != nil {
		t.Fatal(err)
	}
	if dir.entries[0].SortIndex != 2 || dir.entries[1].SortIndex != 1 {
		t.Fatalf("inconsistent stored indices were not rebuilt: got %d, %d", dir.entries[0].SortIndex, dir.entries[1].SortIndex)
	}
}

func TestParseDirectoryDuplicateNamesFirstWins(t *testing.T) {
	t.Parallel()
	archive := buildArchive(0x4444, []entrySpec{
		{name: "DUP", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x41}},
		{name: "dup", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x42}},
	})
	h, err := parseHeader(archive)
	if err != nil {
		t.Fatal(err)
	}
	dir, err := parseDirectory(archive, h)
	if err != nil {
		t.Fatal(err)
	}
	idx, ok := dir.find("Dup")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find DUP")
	}
	if idx != 0 {
		t.Fatalf("idx = %d, want 0 (first occurrence wins)", idx)
	}
}

func TestParseDirectoryFullWidthNameHasNoTerminator(t *testing.T) {
	t.Parallel()
	archive := buildArchive(0x5555, []entrySpec{
		{name: "SIXTEENCHARNAME!", packMethod: uint16(methodNone), unpackedSize: 1, realPacked: []byte{0x41}},
	})
	h, err := parseHeader(archive)
	if err != nil {
		t.Fatal(err)
	}
	dir, err := parseDirectory(archive, h)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{
		Name:         "SIXTEENCHARNAME!",
		PackMethod:   uint16(methodNone),
		UnpackedSize: 1,
		PackedSize:   1,
		DataOffset:   uint32(directoryOffset + entrySize),
		SortIndex:    1,
	}}
	if diff := cmp.Diff(want, dir.entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
