package arq

import "bytes"

// byeSentinel is the payload prefix marking end-of-session.
var byeSentinel = []byte("BYE")

// Chunk is one outbound piece of a chunked message: exactly PayloadSize
// bytes of user data (zero-padded) and the count of chunks still to follow
// it within the same message.
type Chunk struct {
	Payload   [PayloadSize]byte
	Remaining int32
}

// ChunkLine splits line into ordered PayloadSize-byte chunks. A
// zero-length line still produces exactly one chunk with Remaining 0, so
// that a bare newline is itself a deliverable message.
func ChunkLine(line []byte) []Chunk {
	n := (len(line) + PayloadSize - 1) / PayloadSize
	if n == 0 {
		n = 1
	}
	chunks := make([]Chunk, n)
	for i := range chunks {
		start := i * PayloadSize
		end := start + PayloadSize
		if end > len(line) {
			end = len(line)
		}
		copy(chunks[i].Payload[:], line[start:end])
		chunks[i].Remaining = int32(n - 1 - i)
	}
	return chunks
}

// IsBye reports whether payload carries the BYE session-termination
// sentinel: the ASCII literal "BYE" with nothing after it, or followed by a
// newline or a zero byte; bytes after that fourth byte are not examined. A
// line like "BYES" or "BYE THERE" does not match, so only a genuine BYE
// command ends the session. Checked independently on the send path (right after a BYE
// chunk is transmitted) and the receive path (right after a BYE chunk is
// decoded).
func IsBye(payload []byte) bool {
	n := len(byeSentinel)
	if len(payload) < n || !bytes.Equal(payload[:n], byeSentinel) {
		return false
	}
	if len(payload) == n {
		return true
	}
	next := payload[n]
	return next == '\n' || next == 0
}
