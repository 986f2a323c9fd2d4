package rsli

import "testing"

func TestCheckDeflateConsumed(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		consumed int
		packed   int
		cfg      Config
		want     error
	}{
		{"exact match", 10, 10, DefaultConfig(), nil},
		{"one short, quirk disabled", 9, 10, DefaultConfig(), ErrDeflateEOFPlusOneQuirkRejected},
		{"one short, quirk enabled", 9, 10, Config{AllowDeflateEOFPlusOne: true}, nil},
		{"more than one short", 7, 10, DefaultConfig(), ErrDeflateStreamTrailingGarbage},
		{"more than one short, quirk enabled", 7, 10, Config{AllowDeflateEOFPlusOne: true}, ErrDeflateStreamTrailingGarbage},
		{"consumed past packed length", 11, 10, DefaultConfig(), ErrDeflateStreamTruncated},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := checkDeflateConsumed(tc.consumed, tc.packed, tc.cfg)
			if err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCompressionFamilyStripsXorBit(t *testing.T) {
	t.Parallel()
	cases := []struct {
		m    packMethod
		want packMethod
	}{
		{methodNone, methodNone},
		{methodXorOnly, methodNone},
		{methodLzss, methodLzss},
		{methodXorLzss, methodLzss},
		{methodLzssHuffman, methodLzssHuffman},
		{methodXorLzssHuffman, methodLzssHuffman},
		{methodDeflate, methodDeflate},
	}
	for _, tc := range cases {
		if got := tc.m.compressionFamily(); got != tc.want {
			t.Errorf("%#x.compressionFamily() = %#x, want %#x", tc.m, got, tc.want)
		}
	}
}

func TestDecodeUnsupportedMethod(t *testing.T) {
	t.Parallel()
	_, err := decode(0x0C0, []byte{0x00}, 1, 0, 0, DefaultConfig())
	if err != ErrUnsupportedMethod {
		t.Fatalf("got %v, want ErrUnsupportedMethod", err)
	}
}

func TestDecodeNoneSizeMismatch(t *testing.T) {
	t.Parallel()
	_, err := decode(methodNone, []byte{1, 2, 3}, 10, 3, 0, DefaultConfig())
	if err != ErrUnpackedSizeMismatch {
		t.Fatalf("got %v, want ErrUnpackedSizeMismatch", err)
	}
}
