package arq

import "testing"

func TestChunkLineEmpty(t *testing.T) {
	chunks := ChunkLine(nil)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if chunks[0].Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", chunks[0].Remaining)
	}
	var zero [PayloadSize]byte
	if chunks[0].Payload != zero {
		t.Errorf("Payload = %v, want all-zero", chunks[0].Payload)
	}
}

func TestChunkLineExactMultiple(t *testing.T) {
	line := []byte("abcdefghijklmnop") // 16 bytes = 2*PayloadSize
	chunks := ChunkLine(line)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if chunks[0].Remaining != 1 || chunks[1].Remaining != 0 {
		t.Errorf("Remaining sequence = %d,%d, want 1,0", chunks[0].Remaining, chunks[1].Remaining)
	}
	if string(chunks[0].Payload[:]) != "abcdefgh" {
		t.Errorf("chunk 0 = %q, want %q", chunks[0].Payload[:], "abcdefgh")
	}
	if string(chunks[1].Payload[:]) != "ijklmnop" {
		t.Errorf("chunk 1 = %q, want %q", chunks[1].Payload[:], "ijklmnop")
	}
}

func TestChunkLinePartialLastChunk(t *testing.T) {
	line := []byte("abcdefghij") // 10 bytes -> 2 chunks, second padded
	chunks := ChunkLine(line)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	want := [PayloadSize]byte{'i', 'j'}
	if chunks[1].Payload != want {
		t.Errorf("chunk 1 = %v, want %v", chunks[1].Payload, want)
	}
}

func TestIsBye(t *testing.T) {
	cases := []struct {
		payload []byte
		want    bool
	}{
		{[]byte("BYE\x00\x00\x00\x00\x00"), true},
		{[]byte("BYE\n\x00\x00\x00\x00"), true},
		{[]byte("BYE"), true},
		{[]byte("hello\x00\x00\x00"), false},
		{[]byte("BY"), false},
		{[]byte("BYES\x00\x00\x00\x00"), false},
		{[]byte("BYE THE"), false},
	}
	for _, c := range cases {
		if got := IsBye(c.payload); got != c.want {
			t.Errorf("IsBye(%q) = %v, want %v", c.payload, got, c.want)
		}
	}
}
