package arq

import "errors"

var (
	// errWindowFull is returned by Admit when the Send Window has no free slot.
	errWindowFull = errors.New("arq: send window full")
	// errBadPacketSize is returned by Decode when the input is not exactly WireSize bytes.
	errBadPacketSize = errors.New("arq: bad packet size")
	// errPendingFull signals the Pending-Message Queue dropped the oldest entry to make room.
	errPendingFull = errors.New("arq: pending queue full, dropped oldest")
)
