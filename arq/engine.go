package arq

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/yesiltepe-hidir/RDT-with-UDP-under-SR/internal"
)

// Engine drives one chat session: it owns the Send Window, Receive Buffer
// and Pending-Message Queue, and runs the event loop that multiplexes
// standard input, socket readiness and timer expiry. Both endpoints of a
// session run the same Engine, parameterised only by Config's local/peer
// addresses — there is no separate client/server implementation.
type Engine struct {
	logger

	cfg     Config
	conn    DatagramConn
	poller  Poller
	send    *SendWindow
	recv    *RecvBuffer
	pending *PendingQueue
	out     io.Writer

	curChunks   []Chunk
	curChunkIdx int
	done        bool
}

// NewEngine constructs an Engine ready to run. out receives the bytes of
// every delivered message chunk (ordinarily os.Stdout).
func NewEngine(cfg Config, conn DatagramConn, poller Poller, out io.Writer) *Engine {
	cfg = cfg.WithDefaults()
	return &Engine{
		cfg:     cfg,
		conn:    conn,
		poller:  poller,
		send:    NewSendWindow(),
		recv:    NewRecvBuffer(),
		pending: NewPendingQueue(cfg.PendingCap),
		out:     out,
	}
}

// SetLogger wires the same *slog.Logger into the engine and every
// component it owns, propagating one logger to a group of cooperating
// state machines.
func (e *Engine) SetLogger(log *slog.Logger) {
	e.logger.SetLogger(log)
	e.send.SetLogger(log)
	e.recv.SetLogger(log)
	e.pending.SetLogger(log)
}

// hasPendingChunk reports whether the current message still has chunks
// not yet admitted into the Send Window.
func (e *Engine) hasPendingChunk() bool {
	return e.curChunkIdx < len(e.curChunks)
}

// Run executes the event loop to completion: until the BYE sentinel is
// observed on either the send or receive path, or ctx is cancelled, or the
// datagram connection becomes unusable. Returns nil on a clean BYE exit.
// stdin is read line-by-line as user input; cmd/chat passes os.Stdin, and
// tests pass an in-memory reader so the engine never depends on a real
// process's standard input.
func (e *Engine) Run(ctx context.Context, stdin io.Reader) error {
	stdinCh := make(chan []byte, e.cfg.PendingCap)
	go readStdinLines(ctx, stdin, e.cfg.MaxLine, stdinCh, e.poller)

	for !e.done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Step 1: drain one in-flight chunk.
		if e.hasPendingChunk() && e.send.Free() > 0 {
			chunk := e.curChunks[e.curChunkIdx]
			buf, _, err := e.send.Admit(chunk.Payload[:], chunk.Remaining)
			if err != nil {
				e.logerr("arq.Engine.Run: admit", slog.String("err", err.Error()))
			} else {
				if sendErr := e.conn.Send(buf); sendErr != nil {
					e.warn("arq.Engine.Run: send failed, will retry on timeout", slog.String("err", sendErr.Error()))
				}
				e.curChunkIdx++
				if IsBye(chunk.Payload[:]) {
					e.trace("arq.Engine.Run: BYE sent")
					e.done = true
					break
				}
			}
		}

		// Step 2: start the next message if the current one is fully
		// admitted and acknowledged.
		if !e.hasPendingChunk() && e.send.Complete() {
			if line, ok := e.pending.Dequeue(); ok {
				e.send.Reset()
				e.curChunks = ChunkLine(line)
				e.curChunkIdx = 0
			}
		}

		// Step 3: multiplex socket readiness, stdin readiness and timeout.
		pkt, stdinReady, err := e.poller.Wait(e.cfg.PollWait)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return err
			}
			e.logerr("arq.Engine.Run: poll", slog.String("err", err.Error()))
		}
		if pkt != nil {
			e.handlePacket(pkt)
			if e.done {
				break
			}
		}
		if stdinReady {
			select {
			case line, ok := <-stdinCh:
				if ok {
					e.handleStdinLine(line)
				}
			default:
			}
		}

		// Step 4: unconditional timer scan.
		for _, resend := range e.send.ScanTimeouts(time.Now(), e.cfg.Timeout) {
			if sendErr := e.conn.Send(resend); sendErr != nil {
				e.warn("arq.Engine.Run: retransmit send failed", slog.String("err", sendErr.Error()))
			}
		}
	}
	return nil
}

// handlePacket decodes and dispatches one arrived datagram.
func (e *Engine) handlePacket(raw []byte) {
	p, err := Decode(raw)
	if err != nil {
		e.warn("arq.Engine.handlePacket: bad size, dropping", slog.Int("len", len(raw)))
		return
	}
	if !p.ChecksumValid() {
		e.trace("arq.Engine.handlePacket: corrupt, dropping", slog.Int64("seq", int64(p.Seq())))
		return
	}
	if p.IsAcked() {
		e.send.OnAck(p.Seq())
		return
	}

	payload := append([]byte(nil), p.Payload()...)
	if IsBye(payload) {
		e.trace("arq.Engine.handlePacket: BYE received")
		e.done = true
	}

	result := e.recv.OnData(p.Seq(), payload, p.Remaining())
	if result.Ack {
		ackBuf := make([]byte, WireSize)
		EncodeAck(ackBuf, result.AckSeq, result.AckPayload[:], result.AckRemaining)
		if err := e.conn.Send(ackBuf); err != nil {
			e.warn("arq.Engine.handlePacket: ack send failed", slog.String("err", err.Error()))
		}
	}
	for _, chunk := range result.Delivered {
		e.out.Write(chunk[:PayloadSize])
	}
}

// handleStdinLine begins a new message immediately if none is in flight,
// otherwise enqueues the line for later.
func (e *Engine) handleStdinLine(line []byte) {
	if !e.hasPendingChunk() && e.send.Complete() {
		e.send.Reset()
		e.curChunks = ChunkLine(line)
		e.curChunkIdx = 0
		return
	}
	if err := e.pending.Enqueue(line); err != nil {
		e.warn("arq.Engine.handleStdinLine", slog.String("err", err.Error()))
	}
}

// readStdinLines reads standard input line by line, staging bytes through
// a ring buffer so a line longer than maxLine is truncated (the remainder
// becomes the next logical line) rather than ever blocking unbounded. On
// EOF it synthesises a BYE line, so closing stdin cleanly ends the session
// instead of leaving the engine waiting forever. Every line handed off
// also wakes the poller so Engine.Run's Wait call returns promptly.
func readStdinLines(ctx context.Context, stdin io.Reader, maxLine int, out chan<- []byte, wake Poller) {
	defer close(out)
	var ring internal.Ring
	ring.Buf = make([]byte, maxLine*2)
	raw := make([]byte, maxLine)

	emit := func(line []byte) bool {
		select {
		case out <- line:
			wake.WakeStdin()
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		n, rerr := stdin.Read(raw)
		if n > 0 {
			if _, werr := ring.Write(raw[:n]); werr != nil {
				ring.Reset() // defensive: staging overrun, drop and resync on next line boundary.
			}
			for {
				line, ok := extractLine(&ring, maxLine)
				if !ok {
					break
				}
				if !emit(line) {
					return
				}
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				emit([]byte("BYE\n"))
			}
			return
		}
	}
}

// extractLine pulls one newline-terminated (or MaxLine-truncated) line out
// of the ring buffer's staged bytes, if one is available.
func extractLine(r *internal.Ring, maxLine int) ([]byte, bool) {
	buffered := r.Buffered()
	if buffered == 0 {
		return nil, false
	}
	peek := make([]byte, buffered)
	r.ReadPeek(peek)
	if idx := bytes.IndexByte(peek, '\n'); idx >= 0 && idx < maxLine {
		n := idx + 1
		line := make([]byte, n)
		r.Read(line)
		return line, true
	}
	if buffered >= maxLine {
		line := make([]byte, maxLine)
		r.Read(line)
		return line, true
	}
	return nil, false
}
