package rsli

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/rsli/rsli/internal/rsli/xorstream"
)

// pack-method codes, extracted from an entry's PackMethod field via
// methodMask (spec.md §6.2). The bit pattern of the seven recognized
// values (each a distinct subset of bits 5..8) is exactly methodMask, so
// masking PackMethod against it both recovers the method and rejects
// anything PackMethod might carry outside those bits as unrelated
// keystream entropy.
type packMethod uint16

const (
	methodNone           packMethod = 0x000
	methodXorOnly        packMethod = 0x020
	methodLzss           packMethod = 0x040
	methodXorLzss        packMethod = 0x060
	methodLzssHuffman    packMethod = 0x080
	methodXorLzssHuffman packMethod = 0x0A0
	methodDeflate        packMethod = 0x100

	methodMask packMethod = 0x1E0
)

func (m packMethod) hasXorPrelude() bool {
	return m == methodXorOnly || m == methodXorLzss || m == methodXorLzssHuffman
}

// Entry is the decoded, logical form of one directory record (spec.md
// §3 "Entry (logical)").
type Entry struct {
	Name         string
	PackMethod   uint16
	UnpackedSize uint32
	PackedSize   uint32
	DataOffset   uint32

	// SortIndex is the entry's 1-based position in case-insensitive
	// ascending name order. It is always populated, whether recovered
	// from the directory's own bookkeeping or rebuilt (spec.md §4.3
	// step 5).
	SortIndex uint32

	// Reserved carries the entry's trailing two bytes verbatim, whether
	// or not they were trusted as a stored sort index, so that
	// information is not silently discarded.
	Reserved [2]byte
}

func (e Entry) method() packMethod {
	return packMethod(e.PackMethod) & methodMask
}

// xorSeed is the keystream seed for this entry's optional XOR prelude:
// the entry's raw PackMethod value, unmasked (spec.md §4.2, §9
// "Self-modifying XOR key" — the seed is the pack_method field itself,
// not just its method-selector bits, since the bits outside methodMask
// carry no meaning other than entropy for this cipher).
func (e Entry) xorSeed() uint16 {
	return e.PackMethod
}

type directory struct {
	entries []Entry
	byName  map[string]int
}

// parseDirectory implements spec.md §4.3 steps 2-6: locate, decrypt, and
// parse the directory, then build the sort index and the case-insensitive
// lookup map.
func parseDirectory(data []byte, h Header) (*directory, error) {
	start, end, err := directoryBounds(h, len(data))
	if err != nil {
		return nil, err
	}

	buf := make([]byte, end-start)
	copy(buf, data[start:end])
	xorstream.New(h.directorySeed()).ApplyInPlace(buf)

	n := int(h.EntryCount)
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		raw := buf[i*entrySize : (i+1)*entrySize]
		entries[i] = parseRawEntry(raw)
	}

	assignSortIndices(entries)

	d := &directory{
		entries: entries,
		byName:  make(map[string]int, n),
	}
	for i, e := range entries {
		key := strings.ToUpper(e.Name)
		if _, exists := d.byName[key]; exists {
			// First occurrence wins; duplicates are a non-fatal
			// structural anomaly (spec.md §4.3 step 6).
			continue
		}
		d.byName[key] = i
	}
	return d, nil
}

func parseRawEntry(raw []byte) Entry {
	var e Entry
	nameEnd := 0
	for nameEnd < 16 && raw[nameEnd] != 0 {
		nameEnd++
	}
	e.Name = strings.ToUpper(string(raw[:nameEnd]))
	e.PackMethod = binary.LittleEndian.Uint16(raw[16:18])
	e.UnpackedSize = binary.LittleEndian.Uint32(raw[18:22])
	e.PackedSize = binary.LittleEndian.Uint32(raw[22:26])
	e.DataOffset = binary.LittleEndian.Uint32(raw[26:30])
	e.Reserved[0], e.Reserved[1] = raw[30], raw[31]
	return e
}

// assignSortIndices implements the "detect the pre-sorted marker" step
// (spec.md §4.3 step 5, and the related open question about its exact
// shape): this reader has no dedicated marker bit to rely on, so it
// instead tries to interpret every entry's trailing two bytes as a
// little-endian 1-based sort index and checks whether, taken together,
// they form a valid permutation of 1..N that actually matches ascending
// case-insensitive name order. If so, the directory is trusted as
// pre-sorted and those stored indices are kept; otherwise the indices are
// rebuilt from scratch and the trailing bytes are left alone as opaque
// Reserved data.
func assignSortIndices(entries []Entry) {
	n := len(entries)
	if n == 0 {
		return
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return strings.ToUpper(entries[order[a]].Name) < strings.ToUpper(entries[order[b]].Name)
	})

	if trustStoredSortIndices(entries, order) {
		for i := range entries {
			entries[i].SortIndex = uint32(binary.LittleEndian.Uint16(entries[i].Reserved[:]))
		}
		return
	}

	for rank, idx := range order {
		entries[idx].SortIndex = uint32(rank + 1)
	}
}

func trustStoredSortIndices(entries []Entry, order []int) bool {
	n := len(entries)
	seen := make([]bool, n+1)
	for i := range entries {
		v := binary.LittleEndian.Uint16(entries[i].Reserved[:])
		if int(v) < 1 || int(v) > n || seen[v] {
			return false
		}
		seen[v] = true
	}
	for rank, idx := range order {
		want := uint16(rank + 1)
		if binary.LittleEndian.Uint16(entries[idx].Reserved[:]) != want {
			return false
		}
	}
	return true
}

func (d *directory) find(name string) (int, bool) {
	idx, ok := d.byName[strings.ToUpper(name)]
	return idx, ok
}
