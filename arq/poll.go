package arq

import "time"

// Poller is the event loop's readiness primitive: it blocks up to a
// timeout waiting for either the datagram connection or stdin to become
// ready, performing the datagram read itself so the caller never races
// the underlying file descriptor between "became readable" and "read it".
type Poller interface {
	// Wait blocks up to timeout. pkt is non-nil if a datagram arrived;
	// stdinReady is true if WakeStdin was called since the last Wait.
	// Both may be reported together if both happened before timeout.
	Wait(timeout time.Duration) (pkt []byte, stdinReady bool, err error)
	// WakeStdin signals that a stdin line is ready, unblocking Wait.
	WakeStdin()
	Close() error
}

// chanPoller is the portable, channel-based Poller: used directly on
// non-unix builds (poll_other.go) and as the fallback when a DatagramConn
// exposes no OS file descriptor (e.g. MemConn in tests, or a real UDPConn
// whose SyscallConn failed). A background goroutine performs the blocking
// Recv so Wait can select it against a stdin wake-up and a timeout.
type chanPoller struct {
	conn      DatagramConn
	stdinWake chan struct{}
	recvCh    chan []byte
	errCh     chan error
}

// NewChanPoller returns a Poller that multiplexes conn and stdin via Go
// channels instead of a raw poll(2) call.
func NewChanPoller(conn DatagramConn) *chanPoller {
	p := &chanPoller{
		conn:      conn,
		stdinWake: make(chan struct{}, 1),
		recvCh:    make(chan []byte),
		errCh:     make(chan error, 1),
	}
	go p.readLoop()
	return p
}

func (p *chanPoller) readLoop() {
	for {
		buf := make([]byte, WireSize)
		n, err := p.conn.Recv(buf)
		if err != nil {
			p.errCh <- err
			return
		}
		p.recvCh <- buf[:n]
	}
}

// Wait implements Poller.
func (p *chanPoller) Wait(timeout time.Duration) ([]byte, bool, error) {
	select {
	case pkt := <-p.recvCh:
		return pkt, false, nil
	case <-p.stdinWake:
		return nil, true, nil
	case err := <-p.errCh:
		return nil, false, err
	case <-time.After(timeout):
		return nil, false, nil
	}
}

// WakeStdin implements Poller.
func (p *chanPoller) WakeStdin() {
	select {
	case p.stdinWake <- struct{}{}:
	default:
	}
}

// Close implements Poller.
func (p *chanPoller) Close() error { return p.conn.Close() }
