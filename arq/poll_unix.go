//go:build unix

package arq

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// unixPoller drives the event loop's readiness wait with a raw poll(2)
// call over the datagram socket's file descriptor and a self-pipe used to
// wake the loop when a stdin line becomes available, reproducing a
// classic poll(2) client loop far more literally than a channel select
// would.
type unixPoller struct {
	conn  DatagramConn
	fd    int
	pipeR *os.File
	pipeW *os.File
	buf   []byte
}

// NewPoller returns a raw poll(2)-based Poller when conn exposes an OS
// file descriptor, falling back to the portable channel Poller otherwise.
func NewPoller(conn DatagramConn) (Poller, error) {
	fd, ok := conn.Fd()
	if !ok {
		return NewChanPoller(conn), nil
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &unixPoller{conn: conn, fd: int(fd), pipeR: r, pipeW: w, buf: make([]byte, WireSize)}, nil
}

// Wait implements Poller.
func (p *unixPoller) Wait(timeout time.Duration) ([]byte, bool, error) {
	fds := []unix.PollFd{
		{Fd: int32(p.fd), Events: unix.POLLIN},
		{Fd: int32(p.pipeR.Fd()), Events: unix.POLLIN},
	}
	ms := int(timeout / time.Millisecond)
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, false, nil
		}
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}

	var stdinReady bool
	var pkt []byte
	if fds[1].Revents&unix.POLLIN != 0 {
		var drain [64]byte
		unix.Read(int(p.pipeR.Fd()), drain[:])
		stdinReady = true
	}
	if fds[0].Revents&unix.POLLIN != 0 {
		nread, err := p.conn.Recv(p.buf)
		if err != nil {
			return nil, stdinReady, err
		}
		pkt = p.buf[:nread]
	}
	return pkt, stdinReady, nil
}

// WakeStdin implements Poller by writing a byte to the self-pipe.
func (p *unixPoller) WakeStdin() {
	p.pipeW.Write([]byte{0})
}

// Close implements Poller.
func (p *unixPoller) Close() error {
	p.pipeR.Close()
	p.pipeW.Close()
	return p.conn.Close()
}
