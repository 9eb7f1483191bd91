package arq

import "net"

// DatagramConn is the external-collaborator seam between the engine and an
// unreliable datagram transport: a real UDP socket in production (UDPConn)
// or the in-memory pipe used in tests (MemConn, see memconn.go).
type DatagramConn interface {
	// Send writes buf as a single datagram to the configured peer.
	Send(buf []byte) error
	// Recv blocks until a datagram arrives and copies it into buf,
	// returning the number of bytes written.
	Recv(buf []byte) (int, error)
	// Fd returns the underlying OS file descriptor and true if one
	// exists; the unix Poller uses this for raw readiness polling.
	// Implementations with no OS fd (MemConn) return ok=false.
	Fd() (uintptr, bool)
	Close() error
}

// UDPConn adapts a bound *net.UDPConn and a fixed peer address to
// DatagramConn. Both endpoints of a chat session are symmetric: each binds
// its own local port and addresses the other by IP and port.
type UDPConn struct {
	conn *net.UDPConn
	peer *net.UDPAddr
}

// DialUDP binds a UDP socket at local and prepares to exchange datagrams
// with peer.
func DialUDP(local, peer *net.UDPAddr) (*UDPConn, error) {
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, err
	}
	return &UDPConn{conn: conn, peer: peer}, nil
}

// Send implements DatagramConn.
func (u *UDPConn) Send(buf []byte) error {
	_, err := u.conn.WriteToUDP(buf, u.peer)
	return err
}

// Recv implements DatagramConn.
func (u *UDPConn) Recv(buf []byte) (int, error) {
	n, _, err := u.conn.ReadFromUDP(buf)
	return n, err
}

// Fd implements DatagramConn by extracting the raw fd via SyscallConn.
func (u *UDPConn) Fd() (uintptr, bool) {
	sc, err := u.conn.SyscallConn()
	if err != nil {
		return 0, false
	}
	var fd uintptr
	err = sc.Control(func(f uintptr) { fd = f })
	if err != nil {
		return 0, false
	}
	return fd, true
}

// Close implements DatagramConn.
func (u *UDPConn) Close() error { return u.conn.Close() }
