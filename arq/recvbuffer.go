package arq

import "log/slog"

// recvSlot holds one arrived, integrity-valid data packet awaiting
// in-order delivery.
type recvSlot struct {
	occupied  bool
	payload   [PayloadSize]byte
	remaining int32
}

// RecvBuffer is the ordered cache of arrived payloads awaiting in-order
// delivery to stdout. A cursor deliverIdx tracks the next slot due for
// delivery.
type RecvBuffer struct {
	logger

	slots      [SeqSpace]recvSlot
	deliverIdx int32
}

// NewRecvBuffer returns an empty RecvBuffer with deliverIdx at 0.
func NewRecvBuffer() *RecvBuffer {
	return &RecvBuffer{}
}

// Reset zeroes the buffer and restores deliverIdx to 0, used when a
// message completes and the next one may begin.
func (r *RecvBuffer) Reset() {
	for i := range r.slots {
		r.slots[i] = recvSlot{}
	}
	r.deliverIdx = 0
}

// RecvResult reports the effect of handing one arrived data packet to
// [RecvBuffer.OnData]: whether an ACK must be sent back, any payloads now
// ready for in-order delivery, and whether the message just completed.
type RecvResult struct {
	Ack          bool
	AckSeq       int32
	AckPayload   [PayloadSize]byte
	AckRemaining int32
	Delivered    [][]byte
	MessageComplete bool
}

// OnData integrates one already checksum-validated data packet into the
// buffer: a packet already delivered is re-acked and dropped, a fresh one
// is stored and acked, and any run of consecutive slots starting at
// deliverIdx is flushed in order.
func (r *RecvBuffer) OnData(seq int32, payload []byte, remaining int32) RecvResult {
	result := RecvResult{Ack: true, AckSeq: seq, AckRemaining: remaining}
	copy(result.AckPayload[:], payload)

	if seq < r.deliverIdx {
		r.trace("arq.RecvBuffer.OnData:duplicate", slog.Int64("seq", int64(seq)), slog.Int64("deliverIdx", int64(r.deliverIdx)))
		return result
	}

	slot := &r.slots[seq]
	if !slot.occupied {
		slot.occupied = true
		copy(slot.payload[:], payload)
		slot.remaining = remaining
		r.trace("arq.RecvBuffer.OnData:stored", slog.Int64("seq", int64(seq)))
	}

	for r.slots[r.deliverIdx].occupied {
		cur := &r.slots[r.deliverIdx]
		result.Delivered = append(result.Delivered, append([]byte(nil), cur.payload[:]...))
		complete := cur.remaining == 0
		*cur = recvSlot{}
		r.deliverIdx++
		if r.deliverIdx == SeqSpace {
			r.deliverIdx = 0
		}
		if complete {
			result.MessageComplete = true
			r.Reset()
			break
		}
	}
	return result
}
