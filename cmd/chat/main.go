// Command chat is one endpoint of a two-party chat session running the
// Selective-Repeat ARQ engine in package arq over a UDP socket. Both
// endpoints run the same binary, parameterised only by which port they
// bind and which port they talk to.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/yesiltepe-hidir/RDT-with-UDP-under-SR/arq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <peer-ip> <remote-port> <local-port>\n", os.Args[0])
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 3 {
		flag.Usage()
		return fmt.Errorf("chat: expected 3 positional arguments, got %d", len(args))
	}

	remotePort, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("chat: bad remote port %q: %w", args[1], err)
	}
	localPort, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("chat: bad local port %q: %w", args[2], err)
	}
	peerIP := net.ParseIP(args[0])
	if peerIP == nil {
		return fmt.Errorf("chat: bad peer IP %q", args[0])
	}

	peer := &net.UDPAddr{IP: peerIP, Port: remotePort}
	local := &net.UDPAddr{Port: localPort}
	cfg := arq.Config{Local: local, Peer: peer}.WithDefaults()

	conn, err := arq.DialUDP(local, peer)
	if err != nil {
		return fmt.Errorf("chat: socket: %w", err)
	}
	defer conn.Close()

	poller, err := arq.NewPoller(conn)
	if err != nil {
		return fmt.Errorf("chat: poller: %w", err)
	}
	defer poller.Close()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	engine := arq.NewEngine(cfg, conn, poller, os.Stdout)
	engine.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx, os.Stdin); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
