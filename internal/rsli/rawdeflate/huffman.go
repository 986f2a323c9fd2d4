package rawdeflate

import "github.com/rsli/rsli/internal/rsli/bitstream"

// rootBits is the width of the fast lookup table consulted before falling
// back to bit-by-bit descent, per spec.md §9's "fast 9-bit root table...
// fall back to bit-by-bit descent for codes longer than 9 bits".
const rootBits = 9

// huffmanDecoder is a canonical Huffman decoder built per RFC 1951 §3.2.2:
// a binary trie walked one transmitted bit at a time (DEFLATE packs
// Huffman codes most-significant-bit first, which is exactly the order
// bits arrive from bitstream.Reader.ReadBit), with a precomputed
// rootBits-wide table caching the common short-code case.
type huffmanDecoder struct {
	trieLeft  []int32
	trieRight []int32
	trieSym   []int32
	root      int32

	rootSym [1 << rootBits]int32
	rootLen [1 << rootBits]uint8
	rootTo  [1 << rootBits]int32
}

// buildHuffmanDecoder constructs a decoder from one code length per symbol
// (0 meaning the symbol is unused), per the RFC's canonical assignment:
// count codes per length, derive the first code of each length, then
// assign codes to symbols in ascending symbol order.
func buildHuffmanDecoder(lengths []int) (*huffmanDecoder, error) {
	const maxBits = 15

	var count [maxBits + 1]int
	used := 0
	maxLen := 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if l > maxBits {
			return nil, ErrCodeLengthInvalid
		}
		count[l]++
		used++
		if l > maxLen {
			maxLen = l
		}
	}
	if used == 0 {
		return &huffmanDecoder{trieSym: []int32{-1}, root: 0}, nil
	}

	// Special case per RFC/zlib convention: a table with exactly one used
	// code is encoded with a single bit, regardless of its declared length.
	if used == 1 {
		for sym, l := range lengths {
			if l == 0 {
				continue
			}
			h := newTrie()
			h.insert(0, 1, int32(sym))
			h.buildRootTable()
			return h, nil
		}
	}

	var nextCode [maxBits + 1]int
	code := 0
	count[0] = 0
	for bits := 1; bits <= maxBits; bits++ {
		code = (code + count[bits-1]) << 1
		nextCode[bits] = code
	}

	h := newTrie()
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		if err := h.insert(uint32(c), uint(l), int32(sym)); err != nil {
			return nil, err
		}
	}
	h.buildRootTable()
	return h, nil
}

func newTrie() *huffmanDecoder {
	h := &huffmanDecoder{}
	h.trieLeft = append(h.trieLeft, -1)
	h.trieRight = append(h.trieRight, -1)
	h.trieSym = append(h.trieSym, -1)
	h.root = 0
	return h
}

func (h *huffmanDecoder) newNode() int32 {
	h.trieLeft = append(h.trieLeft, -1)
	h.trieRight = append(h.trieRight, -1)
	h.trieSym = append(h.trieSym, -1)
	return int32(len(h.trieSym) - 1)
}

// insert walks the trie from the root, creating internal nodes as needed,
// consuming code's bits from bit (length-1) down to bit 0 (MSB first,
// matching DEFLATE's Huffman-code bit order), and places sym at the leaf.
func (h *huffmanDecoder) insert(code uint32, length uint, sym int32) error {
	node := h.root
	for i := int(length) - 1; i >= 0; i-- {
		if h.trieSym[node] >= 0 {
			return ErrCodeLengthInvalid
		}
		bit := (code >> uint(i)) & 1
		child := h.trieLeft[node]
		if bit == 1 {
			child = h.trieRight[node]
		}
		if child < 0 {
			// newNode may reallocate the trie slices, so the link is
			// stored by index only after it returns.
			child = h.newNode()
			if bit == 0 {
				h.trieLeft[node] = child
			} else {
				h.trieRight[node] = child
			}
		}
		node = child
	}
	if h.trieSym[node] >= 0 || h.trieLeft[node] >= 0 || h.trieRight[node] >= 0 {
		return ErrCodeLengthInvalid
	}
	h.trieSym[node] = sym
	return nil
}

// buildRootTable precomputes, for every rootBits-wide bit pattern (bit 0
// consumed first, matching ReadBit order), either the symbol it resolves
// to and how many bits that took, or the trie node reached after rootBits
// bits so decode can continue bit-by-bit.
func (h *huffmanDecoder) buildRootTable() {
	for idx := 0; idx < 1<<rootBits; idx++ {
		node := h.root
		var used uint8
		resolved := int32(-1)
		for used = 0; used < rootBits; used++ {
			bit := (idx >> used) & 1
			if bit == 0 {
				node = h.trieLeft[node]
			} else {
				node = h.trieRight[node]
			}
			if node < 0 {
				break
			}
			if h.trieSym[node] >= 0 {
				resolved = h.trieSym[node]
				used++
				break
			}
		}
		if node < 0 {
			h.rootSym[idx] = -2 // unreachable bit pattern under this code table
			continue
		}
		if resolved >= 0 {
			h.rootSym[idx] = resolved
			h.rootLen[idx] = used
		} else {
			h.rootSym[idx] = -1
			h.rootTo[idx] = node
		}
	}
}

// decode reads one symbol from br.
func (h *huffmanDecoder) decode(br *bitstream.Reader) (int, error) {
	v, err := br.PeekBits(rootBits)
	if err != nil {
		return h.decodeSlow(br)
	}
	sym := h.rootSym[v]
	switch {
	case sym == -2:
		return 0, ErrCodeLengthInvalid
	case sym >= 0:
		br.SkipBits(uint(h.rootLen[v]))
		return int(sym), nil
	default:
		br.SkipBits(rootBits)
		return h.decodeFrom(br, h.rootTo[v])
	}
}

func (h *huffmanDecoder) decodeSlow(br *bitstream.Reader) (int, error) {
	return h.decodeFrom(br, h.root)
}

func (h *huffmanDecoder) decodeFrom(br *bitstream.Reader, node int32) (int, error) {
	for h.trieSym[node] < 0 {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			node = h.trieLeft[node]
		} else {
			node = h.trieRight[node]
		}
		if node < 0 {
			return 0, ErrCodeLengthInvalid
		}
	}
	return int(h.trieSym[node]), nil
}
