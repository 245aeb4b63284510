package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"dupfinder/internal/ports"
	"dupfinder/internal/scan"
)

// command is one line received from the host.
type command struct {
	Cmd       string `json:"cmd"`
	Source    string `json:"source"`
	Output    string `json:"output"`
	Threshold *int   `json:"threshold"` // nil means the default
}

// Server speaks the line-delimited JSON protocol used by embedding host
// applications: one command object per input line, one event object per
// output line. Scans run on a worker goroutine so cancel commands are
// handled while a scan is in flight; duplicates are copied, never moved,
// leaving the host's library untouched.
type Server struct {
	fp  ports.Fingerprinter
	in  io.Reader
	out io.Writer

	mu sync.Mutex // serializes writes to out
	wg sync.WaitGroup

	// Owned by the Serve goroutine.
	cancel context.CancelFunc
	done   chan struct{}
}

// NewServer creates a protocol server reading commands from in and
// writing events to out.
func NewServer(fp ports.Fingerprinter, in io.Reader, out io.Writer) *Server {
	return &Server{fp: fp, in: in, out: out}
}

// Serve processes commands until a quit command, EOF or a read error.
// A quit drains the running scan instead of aborting it; hosts that want
// to abort send cancel first. Cancelling ctx aborts everything.
func (s *Server) Serve(ctx context.Context) error {
	defer s.wg.Wait()

	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var cmd command
		if err := json.Unmarshal([]byte(line), &cmd); err != nil {
			s.emit(messageEvent{Event: "error", Message: "Invalid JSON command"})
			continue
		}

		switch cmd.Cmd {
		case "scan":
			s.startScan(ctx, cmd)
		case "cancel":
			if s.cancel != nil {
				s.cancel()
			}
		case "ping":
			s.emit(bareEvent{Event: "pong"})
		case "quit":
			return nil
		default:
			s.emit(messageEvent{Event: "error", Message: fmt.Sprintf("Unknown command: %s", cmd.Cmd)})
		}
	}
	return scanner.Err()
}

// startScan launches the scan worker, rejecting the command when one is
// already in flight.
func (s *Server) startScan(ctx context.Context, cmd command) {
	if s.active() {
		s.emit(messageEvent{Event: "error", Message: "A scan is already running"})
		return
	}

	threshold := scan.DefaultThreshold
	if cmd.Threshold != nil {
		threshold = *cmd.Threshold
	}
	job := scan.New(s.fp, scan.SinkFunc(s.emitEvent), scan.Options{
		Source:    cmd.Source,
		Output:    cmd.Output,
		Threshold: threshold,
		Mode:      scan.ModeCopy,
	})

	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		defer cancel()
		if _, err := job.Execute(scanCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.emit(messageEvent{Event: "error", Message: err.Error()})
		}
	}()
}

// active reports whether a scan worker is still running, clearing the
// bookkeeping once the previous one has finished.
func (s *Server) active() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		s.done = nil
		s.cancel = nil
		return false
	default:
		return true
	}
}

func (s *Server) emitEvent(e scan.Event) {
	if msg := encode(e); msg != nil {
		s.emit(msg)
	}
}

func (s *Server) emit(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, string(data))
}
