package arq

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{Timeout: 5 * time.Millisecond, PollWait: time.Millisecond}.WithDefaults()
}

func newTestEnginePair(t *testing.T, fault *FaultProfile) (a, b *Engine, outA, outB *bytes.Buffer) {
	t.Helper()
	connA, connB := NewMemConnPair(fault)
	pollA, err := NewPoller(connA)
	if err != nil {
		t.Fatalf("NewPoller A: %v", err)
	}
	pollB, err := NewPoller(connB)
	if err != nil {
		t.Fatalf("NewPoller B: %v", err)
	}
	outA, outB = &bytes.Buffer{}, &bytes.Buffer{}
	a = NewEngine(testConfig(), connA, pollA, outA)
	b = NewEngine(testConfig(), connB, pollB, outB)
	return a, b, outA, outB
}

func runUntilDone(e *Engine, stdin io.Reader, errc chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errc <- e.Run(ctx, stdin)
}

// runScenario sends aLines from A, while B's stdin stays open (no BYE of
// its own) until B observes A's BYE on the wire and exits on the receive
// path, exercising the receiver-side termination hook independently of
// the sender's own input.
func runScenario(t *testing.T, a, b *Engine, aLines string) {
	t.Helper()
	bStdinR, bStdinW := io.Pipe()
	defer bStdinW.Close()

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go runUntilDone(a, strings.NewReader(aLines), errA)
	go runUntilDone(b, bStdinR, errB)

	if err := <-errA; err != nil {
		t.Errorf("A.Run: %v", err)
	}
	if err := <-errB; err != nil {
		t.Errorf("B.Run: %v", err)
	}
}

func TestEngineCleanShortMessage(t *testing.T) {
	a, b, _, outB := newTestEnginePair(t, nil)
	runScenario(t, a, b, "hello\nBYE\n")
	if !strings.Contains(outB.String(), "hello") {
		t.Errorf("B output = %q, want it to contain %q", outB.String(), "hello")
	}
}

func TestEngineTwoChunkMessageWithReordering(t *testing.T) {
	a, b, _, outB := newTestEnginePair(t, &FaultProfile{Reorder: true})
	runScenario(t, a, b, "helloworld\nBYE\n")
	if !strings.Contains(outB.String(), "helloworld") {
		t.Errorf("B output = %q, want it to contain %q", outB.String(), "helloworld")
	}
}

func TestEngineLossTriggersRetransmit(t *testing.T) {
	a, b, _, outB := newTestEnginePair(t, &FaultProfile{LossProb: 0.3})
	runScenario(t, a, b, "abcdefgh\nBYE\n")
	if !strings.Contains(outB.String(), "abcdefgh") {
		t.Errorf("B output = %q, want it to contain %q despite loss", outB.String(), "abcdefgh")
	}
}

func TestEngineCorruptionTriggersRetransmit(t *testing.T) {
	a, b, _, outB := newTestEnginePair(t, &FaultProfile{CorruptProb: 0.3})
	runScenario(t, a, b, "message1\nBYE\n")
	if !strings.Contains(outB.String(), "message1") {
		t.Errorf("B output = %q, want it to contain %q despite corruption", outB.String(), "message1")
	}
}

func TestEngineDuplicateAckIsHarmless(t *testing.T) {
	a, b, _, outB := newTestEnginePair(t, &FaultProfile{DuplicateProb: 0.5})
	runScenario(t, a, b, "dup\nBYE\n")
	if !strings.Contains(outB.String(), "dup") {
		t.Errorf("B output = %q, want it to contain %q despite duplicate acks", outB.String(), "dup")
	}
}

func TestEngineSessionEndOnBye(t *testing.T) {
	a, b, _, _ := newTestEnginePair(t, nil)
	runScenario(t, a, b, "BYE\n")
}

func TestReadStdinLinesTruncatesOverlongLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn, _ := NewMemConnPair(nil)
	poller, _ := NewPoller(conn)
	defer poller.Close()

	long := strings.Repeat("x", MaxLine+10) + "\n"
	out := make(chan []byte, 4)
	go readStdinLines(ctx, strings.NewReader(long), MaxLine, out, poller)

	first := <-out
	if len(first) != MaxLine {
		t.Errorf("len(first line) = %d, want %d", len(first), MaxLine)
	}
}

func TestReadStdinLinesSynthesizesByeOnEOF(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn, _ := NewMemConnPair(nil)
	poller, _ := NewPoller(conn)
	defer poller.Close()

	out := make(chan []byte, 4)
	readStdinLines(ctx, strings.NewReader(""), MaxLine, out, poller)

	line, ok := <-out
	if !ok || string(line) != "BYE\n" {
		t.Errorf("line = %q, ok=%v, want \"BYE\\n\", true", line, ok)
	}
}
