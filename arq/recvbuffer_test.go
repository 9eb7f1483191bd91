package arq

import (
	"bytes"
	"testing"
)

func TestRecvBufferInOrderDelivery(t *testing.T) {
	r := NewRecvBuffer()
	res := r.OnData(0, []byte("hello\x00\x00\x00"), 0)
	if !res.Ack || res.AckSeq != 0 {
		t.Fatalf("res = %+v, want Ack for seq 0", res)
	}
	if len(res.Delivered) != 1 {
		t.Fatalf("len(Delivered) = %d, want 1", len(res.Delivered))
	}
	if !res.MessageComplete {
		t.Error("MessageComplete = false, want true (remaining=0)")
	}
}

func TestRecvBufferReordering(t *testing.T) {
	r := NewRecvBuffer()
	res1 := r.OnData(1, []byte("world\x00\x00\x00"), 0) // arrives first, out of order
	if len(res1.Delivered) != 0 {
		t.Fatalf("Delivered before seq 0 arrives = %d, want 0", len(res1.Delivered))
	}
	if res1.MessageComplete {
		t.Error("MessageComplete = true before seq 0 arrives, want false")
	}

	res0 := r.OnData(0, []byte("hello\x00\x00\x00"), 1)
	if len(res0.Delivered) != 2 {
		t.Fatalf("Delivered after seq 0 arrives = %d, want 2", len(res0.Delivered))
	}
	if !bytes.Equal(res0.Delivered[0], []byte("hello\x00\x00\x00")) {
		t.Errorf("Delivered[0] = %q, want %q", res0.Delivered[0], "hello\x00\x00\x00")
	}
	if !bytes.Equal(res0.Delivered[1], []byte("world\x00\x00\x00")) {
		t.Errorf("Delivered[1] = %q, want %q", res0.Delivered[1], "world\x00\x00\x00")
	}
	if !res0.MessageComplete {
		t.Error("MessageComplete = false, want true")
	}
}

func TestRecvBufferDuplicateAfterDelivery(t *testing.T) {
	r := NewRecvBuffer()
	r.OnData(0, []byte("aaaaaaaa"), 1)
	r.OnData(1, []byte("bbbbbbbb"), 0) // completes and resets

	// A stray retransmit of seq 0 arrives after the buffer already reset
	// for the next message: deliverIdx is back to 0, so it's treated as a
	// fresh arrival of the (now logically different) message's seq 0.
	// Exercise the true duplicate case instead: redeliver within one message.
	r2 := NewRecvBuffer()
	r2.OnData(0, []byte("aaaaaaaa"), 1) // delivered, deliverIdx -> 1
	res := r2.OnData(0, []byte("aaaaaaaa"), 1) // duplicate retransmit of seq 0
	if !res.Ack {
		t.Fatal("duplicate packet should still be acked")
	}
	if len(res.Delivered) != 0 {
		t.Errorf("Delivered on duplicate = %d, want 0", len(res.Delivered))
	}
}

func TestRecvBufferDeliversOnceOnDuplicateBeforeAdvance(t *testing.T) {
	r := NewRecvBuffer()
	r.OnData(1, []byte("bbbbbbbb"), 0)             // stored, not delivered yet
	res := r.OnData(1, []byte("bbbbbbbb"), 0)       // duplicate, slot already occupied
	if len(res.Delivered) != 0 {
		t.Errorf("Delivered on re-arrival of stored (undelivered) seq = %d, want 0", len(res.Delivered))
	}
}
