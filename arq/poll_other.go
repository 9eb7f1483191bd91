//go:build !unix

package arq

// NewPoller returns the portable channel-based Poller. Non-unix builds
// have no raw poll(2) available through golang.org/x/sys/unix, so they
// always use the channel fallback.
func NewPoller(conn DatagramConn) (Poller, error) {
	return NewChanPoller(conn), nil
}
