package rsli

import (
	"encoding/binary"

	"github.com/rsli/rsli/internal/rsli/xorstream"
)

// entrySpec describes one directory entry for buildArchive: name is padded
// or truncated to the 16-byte name field, packMethod is the entry's full
// raw pack_method value (selector bits plus, for XOR-combined methods, the
// keystream seed), and realPacked is the payload exactly as the relevant
// kernel would decode it — buildArchive applies the XOR prelude itself when
// the method calls for one, matching how a real archive stores it on disk.
type entrySpec struct {
	name         string
	packMethod   uint16
	unpackedSize uint32
	realPacked   []byte
	sortIndex    uint16 // 0 means "leave the trailing two bytes zero"
}

// buildArchive assembles a complete in-memory RsLi file: header, encrypted
// directory, and payload bytes laid out back to back in entry order. dirSeed
// is the header's directory-decryption seed (this reader's resolution of
// the directorySeed open question: the low 16 bits of Flags).
func buildArchive(dirSeed uint16, entries []entrySpec) []byte {
	n := len(entries)
	dirSize := n * entrySize
	payloadStart := directoryOffset + dirSize

	var payloads [][]byte
	offset := payloadStart
	dataOffsets := make([]int, n)
	for i, e := range entries {
		dataOffsets[i] = offset
		payloads = append(payloads, e.realPacked)
		offset += len(e.realPacked)
	}
	total := offset

	buf := make([]byte, total)

	// Header.
	buf[0], buf[1], buf[2] = magicByte0, magicByte1, magicByte2
	buf[3] = wantVersion
	binary.LittleEndian.PutUint32(buf[4:8], uint32(n))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(dirSeed))

	// Plaintext directory, built in place, then XOR-encrypted in bulk
	// (the cipher is an involution, so encrypting here is the same
	// operation Open uses to decrypt it).
	dir := buf[directoryOffset:payloadStart]
	for i, e := range entries {
		raw := dir[i*entrySize : (i+1)*entrySize]
		nameBytes := []byte(e.name)
		if len(nameBytes) > 16 {
			nameBytes = nameBytes[:16]
		}
		copy(raw[0:16], nameBytes)
		binary.LittleEndian.PutUint16(raw[16:18], e.packMethod)
		binary.LittleEndian.PutUint32(raw[18:22], e.unpackedSize)
		binary.LittleEndian.PutUint32(raw[22:26], uint32(len(e.realPacked)))
		binary.LittleEndian.PutUint32(raw[26:30], uint32(dataOffsets[i]))
		if e.sortIndex != 0 {
			binary.LittleEndian.PutUint16(raw[30:32], e.sortIndex)
		}
	}
	xorstream.New(dirSeed).ApplyInPlace(dir)

	// Payload bytes, XOR-enciphered in place when the method carries a
	// prelude, exactly as decode() expects to find them on disk.
	for i, e := range entries {
		dst := buf[dataOffsets[i] : dataOffsets[i]+len(e.realPacked)]
		copy(dst, e.realPacked)
		if packMethod(e.packMethod)&methodMask == methodXorOnly ||
			packMethod(e.packMethod)&methodMask == methodXorLzss ||
			packMethod(e.packMethod)&methodMask == methodXorLzssHuffman {
			xorstream.New(e.packMethod).ApplyInPlace(dst)
		}
	}

	return buf
}

// lzssLiteralsOnly builds a minimal valid LZSS stream encoding plain with no
// back references, used as a real-packed fixture for methodLzss /
// methodXorLzss entries.
func lzssLiteralsOnly(plain []byte) []byte {
	var out []byte
	for i := 0; i < len(plain); i += 8 {
		end := i + 8
		if end > len(plain) {
			end = len(plain)
		}
		out = append(out, 0xFF)
		out = append(out, plain[i:end]...)
	}
	return out
}
