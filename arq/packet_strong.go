//go:build strongchecksum

package arq

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// trailerSize is the width of the strong-checksum trailer: a BLAKE2b-256
// digest of the payload and sequence number, truncated to 64 bits.
const trailerSize = 8

// WireSize is the number of bytes a Packet occupies on the wire when built
// with the strongchecksum tag: the default packet layout plus a trailer.
// Peers must be built with matching tags to interoperate.
const WireSize = PacketSize + trailerSize

func strongDigest(seq int32, payload []byte) uint64 {
	var seqBuf [4]byte
	binary.LittleEndian.PutUint32(seqBuf[:], uint32(seq))
	sum := blake2b.Sum256(append(seqBuf[:], payload...))
	return binary.LittleEndian.Uint64(sum[:8])
}

// applyStrongChecksum writes the BLAKE2b-derived trailer following the
// PacketSize-byte default layout. The caller must have allocated buf with
// at least WireSize bytes.
func applyStrongChecksum(p Packet) {
	buf := p.RawData()
	if len(buf) < WireSize {
		return
	}
	digest := strongDigest(p.Seq(), p.Payload())
	binary.LittleEndian.PutUint64(buf[PacketSize:PacketSize+trailerSize], digest)
}

// verifyStrongChecksum recomputes and compares the strong-checksum trailer.
func verifyStrongChecksum(p Packet) bool {
	buf := p.RawData()
	if len(buf) < WireSize {
		return false
	}
	want := binary.LittleEndian.Uint64(buf[PacketSize : PacketSize+trailerSize])
	return want == strongDigest(p.Seq(), p.Payload())
}
