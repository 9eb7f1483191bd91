package arq

import (
	"log/slog"

	"github.com/yesiltepe-hidir/RDT-with-UDP-under-SR/internal"
)

// PendingQueue is the bounded ordered queue of stdin lines typed while a
// message is still in flight, waiting their turn to become the next
// message.
type PendingQueue struct {
	logger

	lines [][]byte
	cap   int
}

// NewPendingQueue returns an empty queue with the given capacity.
func NewPendingQueue(capacity int) *PendingQueue {
	q := &PendingQueue{cap: capacity}
	internal.SliceReuse(&q.lines, 0)
	return q
}

// Enqueue appends an owned copy of line to the queue. If the queue is at
// capacity the oldest entry is dropped to make room (defensive, since the
// documented bound is not reachable in normal operation) and
// errPendingFull is returned alongside the successful enqueue of the new
// line.
func (q *PendingQueue) Enqueue(line []byte) error {
	owned := append([]byte(nil), line...)
	var err error
	if len(q.lines) >= q.cap {
		q.lines = q.lines[1:]
		err = errPendingFull
		q.warn("arq.PendingQueue.Enqueue: capacity reached, dropping oldest", slog.Int("cap", q.cap))
	}
	q.lines = append(q.lines, owned)
	return err
}

// Dequeue removes and returns the oldest queued line, if any.
func (q *PendingQueue) Dequeue() ([]byte, bool) {
	if len(q.lines) == 0 {
		return nil, false
	}
	line := q.lines[0]
	q.lines = q.lines[1:]
	return line, true
}

// Len reports the number of lines currently queued.
func (q *PendingQueue) Len() int { return len(q.lines) }
