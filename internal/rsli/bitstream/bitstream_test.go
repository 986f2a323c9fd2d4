package bitstream

import "testing"

func TestReadBitLSBFirst(t *testing.T) {
	t.Parallel()
	// 0b1011_0010 = 0xB2; LSB-first bit sequence is 0,1,0,0,1,1,0,1
	r := New([]byte{0xB2})
	want := []uint32{0, 1, 0, 0, 1, 1, 0, 1}
	for i, w := range want {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("bit %d: got %d, want %d", i, got, w)
		}
	}
	if _, err := r.ReadBit(); err != ErrUnexpectedEOF {
		t.Fatalf("past end: got %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadBitsAcrossBytes(t *testing.T) {
	t.Parallel()
	r := New([]byte{0xFF, 0x00, 0xAA})
	v, err := r.ReadBits(12)
	if err != nil {
		t.Fatal(err)
	}
	// low 8 bits all from 0xFF (all 1s), next 4 bits from 0x00 (all 0s)
	if v != 0x0FF {
		t.Fatalf("got %#x, want %#x", v, 0x0FF)
	}
}

func TestAlignToByte(t *testing.T) {
	t.Parallel()
	r := New([]byte{0xFF, 0x42})
	if _, err := r.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	r.AlignToByte()
	b, err := r.ReadU8()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x42 {
		t.Fatalf("got %#x, want 0x42", b)
	}
}

func TestReadLEU16(t *testing.T) {
	t.Parallel()
	r := New([]byte{0x34, 0x12})
	v, err := r.ReadLEU16()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x1234 {
		t.Fatalf("got %#x, want 0x1234", v)
	}
}

func TestPeekBitsDoesNotConsume(t *testing.T) {
	t.Parallel()
	r := New([]byte{0xAB, 0xCD})
	peeked, err := r.PeekBits(9)
	if err != nil {
		t.Fatal(err)
	}
	read, err := r.ReadBits(9)
	if err != nil {
		t.Fatal(err)
	}
	if peeked != read {
		t.Fatalf("peek %#x != read %#x", peeked, read)
	}
}

func TestConsumedTracksWholeBytes(t *testing.T) {
	t.Parallel()
	r := New([]byte{0x01, 0x02, 0x03})
	if _, err := r.ReadBits(4); err != nil {
		t.Fatal(err)
	}
	if got := r.Consumed(); got != 0 {
		t.Fatalf("Consumed() = %d, want 0 (half of byte 0 still buffered)", got)
	}
	if _, err := r.ReadBits(4); err != nil {
		t.Fatal(err)
	}
	if got := r.Consumed(); got != 1 {
		t.Fatalf("Consumed() = %d, want 1 (byte 0 fully drained)", got)
	}
}
