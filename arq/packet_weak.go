//go:build !strongchecksum

package arq

// WireSize is the number of bytes a Packet occupies on the wire. Without
// the strongchecksum build tag this is exactly PacketSize: the default
// wire format talks to any peer, matching the mandatory weak checksum
// byte-for-byte.
const WireSize = PacketSize

// applyStrongChecksum is a no-op in the default build: only the weak
// additive checksum protects the packet.
func applyStrongChecksum(Packet) {}

// verifyStrongChecksum always reports true in the default build; the weak
// checksum check in [Packet.ChecksumValid] is the only integrity check.
func verifyStrongChecksum(Packet) bool { return true }
