package arq

import (
	"io"
	"math/rand"
)

// FaultProfile controls synthetic unreliability injected by MemConn.Send.
// Probabilities are in [0,1]; the zero value never injects a fault.
type FaultProfile struct {
	LossProb      float64
	CorruptProb   float64
	DuplicateProb float64
	// Reorder, when true, holds back every other outbound datagram by one
	// send so it is delivered after the one that follows it.
	Reorder bool
}

// MemConn is an in-memory DatagramConn test double. Two MemConns created
// by NewMemConnPair exchange datagrams over buffered channels instead of a
// real socket, optionally simulating loss, corruption, duplication and
// reordering, so end-to-end session scenarios can be driven without a
// real network.
type MemConn struct {
	out   chan<- []byte
	in    <-chan []byte
	fault *FaultProfile
	rng   *rand.Rand
	held  []byte
}

// NewMemConnPair returns two connected MemConns. fault, if non-nil, is
// shared by both directions; pass nil for a perfectly reliable pipe.
func NewMemConnPair(fault *FaultProfile) (a, b *MemConn) {
	ab := make(chan []byte, 256)
	ba := make(chan []byte, 256)
	a = &MemConn{out: ab, in: ba, fault: fault, rng: rand.New(rand.NewSource(1))}
	b = &MemConn{out: ba, in: ab, fault: fault, rng: rand.New(rand.NewSource(2))}
	return a, b
}

// Send implements DatagramConn, applying the configured FaultProfile.
func (c *MemConn) Send(buf []byte) error {
	cp := append([]byte(nil), buf...)
	if c.fault != nil {
		if c.fault.LossProb > 0 && c.rng.Float64() < c.fault.LossProb {
			return nil // simulated datagram loss: dropped silently
		}
		if c.fault.CorruptProb > 0 && c.rng.Float64() < c.fault.CorruptProb {
			cp[0] ^= 0xFF
		}
	}
	if c.fault != nil && c.fault.Reorder && c.held == nil {
		c.held = cp
		return nil
	}
	if c.held != nil {
		// Send the current packet ahead of the one held back by the
		// previous call, swapping their relative order on the wire.
		c.out <- cp
		c.out <- c.held
		c.held = nil
	} else {
		c.out <- cp
	}
	if c.fault != nil && c.fault.DuplicateProb > 0 && c.rng.Float64() < c.fault.DuplicateProb {
		c.out <- append([]byte(nil), cp...)
	}
	return nil
}

// Recv implements DatagramConn.
func (c *MemConn) Recv(buf []byte) (int, error) {
	data, ok := <-c.in
	if !ok {
		return 0, io.EOF
	}
	return copy(buf, data), nil
}

// Fd implements DatagramConn: MemConn has no OS file descriptor.
func (c *MemConn) Fd() (uintptr, bool) { return 0, false }

// Close implements DatagramConn. MemConn has no resources to release.
func (c *MemConn) Close() error { return nil }
