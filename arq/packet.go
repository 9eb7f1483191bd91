package arq

import (
	"encoding/binary"
	"time"
)

// PacketSize is the fixed size, in bytes, of the on-wire unit: a 9-byte
// payload followed by four 32-bit fields and an 8-byte timestamp.
const PacketSize = 9 + 4 + 4 + 4 + 8 + 4

const (
	offPayload   = 0
	offChecksum  = 9
	offSeq       = 13
	offIsAcked   = 17
	offSendTime  = 21
	offRemaining = 29
)

// NewPacket returns a new Packet with its data set to buf. buf must be at
// least PacketSize bytes (exactly WireSize bytes for a complete wire
// packet); a shorter buffer is a programmer error and panics on first field
// access. Decode, by contrast, never fails structurally on a buffer of the
// wrong size: it simply rejects it up front.
func NewPacket(buf []byte) Packet {
	return Packet{buf: buf}
}

// Packet is a view over the fixed-size on-wire representation of a single
// chat protocol datagram. It carries up to 8 bytes of user payload plus
// sequencing, acknowledgement, timing and bookkeeping fields.
type Packet struct {
	buf []byte
}

// RawData returns the underlying slice the Packet was created with.
func (p Packet) RawData() []byte { return p.buf }

// Payload returns the 9-byte payload field. Only the first PayloadSize
// bytes ever carry user data; the 9th byte is always zero.
func (p Packet) Payload() []byte {
	return p.buf[offPayload : offPayload+9]
}

// SetPayload copies data (at most 8 bytes) into the payload field,
// zero-padding the remainder, including the always-zero 9th byte.
func (p Packet) SetPayload(data []byte) {
	dst := p.Payload()
	clear(dst)
	copy(dst, data)
}

// Checksum returns the stored integrity tag.
func (p Packet) Checksum() int32 {
	return int32(binary.LittleEndian.Uint32(p.buf[offChecksum : offChecksum+4]))
}

// SetChecksum sets the integrity tag. See [Packet.Checksum].
func (p Packet) SetChecksum(c int32) {
	binary.LittleEndian.PutUint32(p.buf[offChecksum:offChecksum+4], uint32(c))
}

// Seq returns the sequence number field, always in [0, SeqSpace).
func (p Packet) Seq() int32 {
	return int32(binary.LittleEndian.Uint32(p.buf[offSeq : offSeq+4]))
}

// SetSeq sets the sequence number field. See [Packet.Seq].
func (p Packet) SetSeq(seq int32) {
	binary.LittleEndian.PutUint32(p.buf[offSeq:offSeq+4], uint32(seq))
}

// IsAcked reports whether this packet is an acknowledgement (true) or a
// data packet (false).
func (p Packet) IsAcked() bool {
	return binary.LittleEndian.Uint32(p.buf[offIsAcked:offIsAcked+4]) != 0
}

// SetIsAcked sets the acknowledgement flag. See [Packet.IsAcked].
func (p Packet) SetIsAcked(acked bool) {
	var v uint32
	if acked {
		v = 1
	}
	binary.LittleEndian.PutUint32(p.buf[offIsAcked:offIsAcked+4], v)
}

// SendTime returns the sender's transmit timestamp, in microseconds since
// the Unix epoch. Only the sender consults this field.
func (p Packet) SendTime() int64 {
	return int64(binary.LittleEndian.Uint64(p.buf[offSendTime : offSendTime+8]))
}

// SetSendTime sets the transmit timestamp. See [Packet.SendTime].
func (p Packet) SetSendTime(t time.Time) {
	binary.LittleEndian.PutUint64(p.buf[offSendTime:offSendTime+8], uint64(t.UnixMicro()))
}

// Remaining returns the number of chunks still to follow this one within
// the current message; 0 marks the final chunk of a message.
func (p Packet) Remaining() int32 {
	return int32(binary.LittleEndian.Uint32(p.buf[offRemaining : offRemaining+4]))
}

// SetRemaining sets the remaining-chunks field. See [Packet.Remaining].
func (p Packet) SetRemaining(n int32) {
	binary.LittleEndian.PutUint32(p.buf[offRemaining:offRemaining+4], uint32(n))
}

// computeChecksum implements the protocol's weak additive checksum: the
// sequence number plus the sum of the first 8 payload bytes, each
// sign-extended from an 8-bit signed value to 32 bits, wrapping in 32-bit
// two's complement.
func computeChecksum(seq int32, payload []byte) int32 {
	sum := seq
	for i := 0; i < PayloadSize && i < len(payload); i++ {
		sum += int32(int8(payload[i]))
	}
	return sum
}

// EncodeData writes a data packet (is_acked=0) into buf, which must be at
// least WireSize bytes, and returns the resulting Packet view. send_time
// is stamped with the current time.
func EncodeData(buf []byte, seq int32, payload []byte, remaining int32) Packet {
	p := NewPacket(buf)
	p.SetPayload(payload)
	p.SetSeq(seq)
	p.SetIsAcked(false)
	p.SetSendTime(time.Now())
	p.SetRemaining(remaining)
	p.SetChecksum(computeChecksum(seq, p.Payload()))
	applyStrongChecksum(p)
	return p
}

// EncodeAck writes an acknowledgement packet (is_acked=1) for seq into buf,
// echoing the original payload and remaining count: an ACK is the same
// wire bytes as the data packet it acknowledges, with is_acked set.
func EncodeAck(buf []byte, seq int32, payload []byte, remaining int32) Packet {
	p := EncodeData(buf, seq, payload, remaining)
	p.SetIsAcked(true)
	return p
}

// Decode returns a Packet view over buf, which must be exactly WireSize
// bytes. Decode never fails structurally; checksum validity is checked
// separately with [Packet.ChecksumValid].
func Decode(buf []byte) (Packet, error) {
	if len(buf) != WireSize {
		return Packet{}, errBadPacketSize
	}
	return NewPacket(buf), nil
}

// ChecksumValid recomputes the packet's integrity tag and reports whether
// it matches the stored checksum. A mismatch means the packet is corrupted
// and must be dropped silently.
func (p Packet) ChecksumValid() bool {
	if !verifyStrongChecksum(p) {
		return false
	}
	return p.Checksum() == computeChecksum(p.Seq(), p.Payload())
}
