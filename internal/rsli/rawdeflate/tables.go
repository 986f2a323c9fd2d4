package rawdeflate

// RFC 1951 §3.2.5 length and distance extra-bits tables. lengthBase[i] /
// distBase[i] give the base value for length/distance code i; the decoder
// reads lengthExtra[i] / distExtra[i] additional raw bits and adds them.

var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]uint{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [30]uint{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order code-length-alphabet lengths are transmitted
// in for a dynamic block, per RFC 1951 §3.2.7.
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

const (
	windowSize = 32768
	windowMask = windowSize - 1

	endOfBlock = 256
)

var fixedLit, fixedDist *huffmanDecoder

func init() {
	lit := make([]int, 288)
	for i := 0; i < 144; i++ {
		lit[i] = 8
	}
	for i := 144; i < 256; i++ {
		lit[i] = 9
	}
	for i := 256; i < 280; i++ {
		lit[i] = 7
	}
	for i := 280; i < 288; i++ {
		lit[i] = 8
	}
	var err error
	fixedLit, err = buildHuffmanDecoder(lit)
	if err != nil {
		panic(err)
	}

	dist := make([]int, 30)
	for i := range dist {
		dist[i] = 5
	}
	fixedDist, err = buildHuffmanDecoder(dist)
	if err != nil {
		panic(err)
	}
}
