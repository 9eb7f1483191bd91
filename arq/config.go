// Package arq implements a Selective-Repeat ARQ reliability layer on top of
// an unreliable datagram transport. It provides message chunking, send and
// receive sliding windows, retransmission, and the event loop that drives a
// single chat session between two symmetric endpoints.
package arq

import (
	"net"
	"time"
)

// Window is the base send/receive window size W. The extended sequence
// space used by the Send Window and Receive Buffer is 2*Window.
const Window = 8

// SeqSpace is the extended sequence-number space, 2*Window. Sequence
// numbers and slot indices are always taken modulo SeqSpace.
const SeqSpace = 2 * Window

// PayloadSize is the number of user-data bytes carried by a single chunk.
const PayloadSize = 8

// MaxLine is the maximum accepted length, in bytes, of one stdin line.
const MaxLine = 256

// PendingCap is the default capacity of the Pending-Message Queue.
const PendingCap = 20

// DefaultTimeout is the default per-slot retransmission timer.
const DefaultTimeout = 100 * time.Millisecond

// DefaultPollWait bounds how long the event loop blocks on a single
// readiness check before re-running its housekeeping steps.
const DefaultPollWait = 2 * time.Millisecond

// Config is the immutable set of tunables and endpoint addresses passed to
// NewEngine, which hands the values its components need (such as the
// pending-queue capacity) to their constructors. There is no package-level
// mutable configuration anywhere in this tree; the window size and chunk
// size are the package constants Window and PayloadSize.
type Config struct {
	// Local is the address this endpoint binds to.
	Local *net.UDPAddr
	// Peer is the address of the other endpoint.
	Peer *net.UDPAddr

	// MaxLine bounds the length of a single accepted stdin line.
	MaxLine int
	// PayloadSize records the chunk size in bytes. The engine does not read
	// it: chunking and the packet codec always use the PayloadSize constant.
	PayloadSize int
	// Timeout is the per-slot retransmission timer.
	Timeout time.Duration
	// PollWait bounds a single readiness-primitive wait.
	PollWait time.Duration
	// PendingCap is the Pending-Message Queue capacity.
	PendingCap int
}

// WithDefaults returns a copy of c with zero-valued tunables replaced by
// their documented defaults. Local and Peer are left untouched.
func (c Config) WithDefaults() Config {
	if c.MaxLine <= 0 {
		c.MaxLine = MaxLine
	}
	if c.PayloadSize <= 0 {
		c.PayloadSize = PayloadSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollWait <= 0 {
		c.PollWait = DefaultPollWait
	}
	if c.PendingCap <= 0 {
		c.PendingCap = PendingCap
	}
	return c
}
