package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"dupfinder/internal/domain"
	"dupfinder/internal/ports"
)

type stubFingerprinter struct {
	infos map[string]ports.ImageInfo
}

func (s *stubFingerprinter) Compute(path string) (ports.ImageInfo, error) {
	info, ok := s.infos[filepath.Base(path)]
	if !ok {
		return ports.ImageInfo{}, errors.New("cannot decode image")
	}
	return info, nil
}

// gatedFingerprinter blocks every Compute until release is closed and
// signals the first call through started. Lets tests hold a scan open
// while more commands arrive.
type gatedFingerprinter struct {
	stub    stubFingerprinter
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedFingerprinter) Compute(path string) (ports.ImageInfo, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.stub.Compute(path)
}

func fpBits(bits ...int) domain.Fingerprint {
	var fp domain.Fingerprint
	for _, b := range bits {
		fp[b/64] |= 1 << (b % 64)
	}
	return fp
}

func imageInfo(fp domain.Fingerprint, size int64) ports.ImageInfo {
	return ports.ImageInfo{Fingerprint: fp, Size: size, ModTime: time.Unix(1600000000, 0)}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func runScript(t *testing.T, fp ports.Fingerprinter, script string) []map[string]any {
	t.Helper()
	var out bytes.Buffer
	srv := NewServer(fp, strings.NewReader(script), &out)
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	return decodeEvents(t, out.String())
}

func decodeEvents(t *testing.T, output string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid event line %q: %v", line, err)
		}
		events = append(events, m)
	}
	return events
}

func eventsNamed(events []map[string]any, name string) []map[string]any {
	var out []map[string]any
	for _, e := range events {
		if e["event"] == name {
			out = append(out, e)
		}
	}
	return out
}

func TestServerPing(t *testing.T) {
	events := runScript(t, &stubFingerprinter{}, `{"cmd":"ping"}`+"\n"+`{"cmd":"quit"}`+"\n")
	if len(events) != 1 || events[0]["event"] != "pong" {
		t.Errorf("expected a single pong, got %v", events)
	}
}

func TestServerInvalidJSON(t *testing.T) {
	events := runScript(t, &stubFingerprinter{}, "this is not json\n"+`{"cmd":"quit"}`+"\n")
	errs := eventsNamed(events, "error")
	if len(errs) != 1 || errs[0]["message"] != "Invalid JSON command" {
		t.Errorf("expected invalid JSON error, got %v", events)
	}
}

func TestServerUnknownCommand(t *testing.T) {
	events := runScript(t, &stubFingerprinter{}, `{"cmd":"bogus"}`+"\n"+`{"cmd":"quit"}`+"\n")
	errs := eventsNamed(events, "error")
	if len(errs) != 1 || errs[0]["message"] != "Unknown command: bogus" {
		t.Errorf("expected unknown command error, got %v", events)
	}
}

func TestServerIgnoresBlankLines(t *testing.T) {
	events := runScript(t, &stubFingerprinter{}, "\n  \n"+`{"cmd":"ping"}`+"\n"+`{"cmd":"quit"}`+"\n")
	if len(events) != 1 {
		t.Errorf("expected blank lines to be skipped, got %v", events)
	}
}

func TestServerCancelWhenIdleIsNoop(t *testing.T) {
	events := runScript(t, &stubFingerprinter{}, `{"cmd":"cancel"}`+"\n"+`{"cmd":"ping"}`+"\n"+`{"cmd":"quit"}`+"\n")
	if len(events) != 1 || events[0]["event"] != "pong" {
		t.Errorf("expected idle cancel to be silent, got %v", events)
	}
}

func TestServerScanCopiesDuplicates(t *testing.T) {
	source := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(source, "a.jpg"), "AAAA")
	writeFile(t, filepath.Join(source, "b.jpg"), "A")

	stub := &stubFingerprinter{infos: map[string]ports.ImageInfo{
		"a.jpg": imageInfo(fpBits(), 900),
		"b.jpg": imageInfo(fpBits(1), 100),
	}}

	script := fmt.Sprintf(`{"cmd":"scan","source":%q,"output":%q}`+"\n"+`{"cmd":"quit"}`+"\n", source, output)
	events := runScript(t, stub, script)

	completes := eventsNamed(events, "complete")
	if len(completes) != 1 {
		t.Fatalf("expected one complete event, got %v", events)
	}
	c := completes[0]
	if c["groups"] != float64(1) || c["moved"] != float64(1) || c["errors"] != float64(0) {
		t.Errorf("unexpected complete event: %v", c)
	}
	if c["summary"] != "1 duplicate group(s) found. 1 similar photo(s) copied. 0 error(s)." {
		t.Errorf("unexpected summary: %v", c["summary"])
	}

	// Copy mode: the host's files stay put.
	if _, err := os.Stat(filepath.Join(source, "b.jpg")); err != nil {
		t.Errorf("expected source file to remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "b.jpg")); err != nil {
		t.Errorf("expected copy in output folder: %v", err)
	}

	progress := eventsNamed(events, "progress")
	if len(progress) == 0 {
		t.Fatalf("expected progress events")
	}
	last := progress[len(progress)-1]
	if last["current"] != float64(2) || last["total"] != float64(2) {
		t.Errorf("expected final progress 2/2, got %v", last)
	}

	statuses := eventsNamed(events, "status")
	foundCopying := false
	for _, s := range statuses {
		if s["message"] == "Copying similar photos..." {
			foundCopying = true
		}
	}
	if !foundCopying {
		t.Errorf("expected copy-mode status, got %v", statuses)
	}
}

func TestServerScanThreshold(t *testing.T) {
	newFixture := func(t *testing.T) (string, string, *stubFingerprinter) {
		source := t.TempDir()
		output := filepath.Join(t.TempDir(), "out")
		writeFile(t, filepath.Join(source, "a.jpg"), "AAAA")
		writeFile(t, filepath.Join(source, "b.jpg"), "A")
		stub := &stubFingerprinter{infos: map[string]ports.ImageInfo{
			"a.jpg": imageInfo(fpBits(), 900),
			"b.jpg": imageInfo(fpBits(0, 1, 2, 3, 4, 5, 6, 7, 8, 9), 100), // distance 10
		}}
		return source, output, stub
	}

	t.Run("default threshold groups distance 10", func(t *testing.T) {
		source, output, stub := newFixture(t)
		script := fmt.Sprintf(`{"cmd":"scan","source":%q,"output":%q}`+"\n"+`{"cmd":"quit"}`+"\n", source, output)
		events := runScript(t, stub, script)
		completes := eventsNamed(events, "complete")
		if len(completes) != 1 || completes[0]["groups"] != float64(1) {
			t.Errorf("expected one group under default threshold, got %v", completes)
		}
	})

	t.Run("explicit threshold 5 rejects distance 10", func(t *testing.T) {
		source, output, stub := newFixture(t)
		script := fmt.Sprintf(`{"cmd":"scan","source":%q,"output":%q,"threshold":5}`+"\n"+`{"cmd":"quit"}`+"\n", source, output)
		events := runScript(t, stub, script)
		completes := eventsNamed(events, "complete")
		if len(completes) != 1 || completes[0]["groups"] != float64(0) {
			t.Errorf("expected no groups under threshold 5, got %v", completes)
		}
	})
}

func TestServerScanValidationError(t *testing.T) {
	script := `{"cmd":"scan","source":"","output":"/tmp/x"}` + "\n" + `{"cmd":"quit"}` + "\n"
	events := runScript(t, &stubFingerprinter{}, script)
	errs := eventsNamed(events, "error")
	if len(errs) != 1 || !strings.Contains(errs[0]["message"].(string), "source") {
		t.Errorf("expected source validation error, got %v", events)
	}
	if len(eventsNamed(events, "complete")) != 0 {
		t.Errorf("expected no terminal event for invalid scan")
	}
}

func TestServerCancelDuringScan(t *testing.T) {
	source := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(source, "a.jpg"), "AAAA")
	writeFile(t, filepath.Join(source, "b.jpg"), "A")

	gated := &gatedFingerprinter{
		stub: stubFingerprinter{infos: map[string]ports.ImageInfo{
			"a.jpg": imageInfo(fpBits(), 900),
			"b.jpg": imageInfo(fpBits(1), 100),
		}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	pr, pw := io.Pipe()
	var out bytes.Buffer
	srv := NewServer(gated, pr, &out)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(context.Background()) }()

	fmt.Fprintf(pw, `{"cmd":"scan","source":%q,"output":%q}`+"\n", source, output)
	<-gated.started
	fmt.Fprintln(pw, `{"cmd":"cancel"}`)
	// The quit write only returns once the server has fully processed the
	// cancel, so releasing afterwards guarantees hashing resumes against a
	// cancelled context.
	fmt.Fprintln(pw, `{"cmd":"quit"}`)
	close(gated.release)
	if err := <-errCh; err != nil {
		t.Fatalf("serve: %v", err)
	}
	pw.Close()

	events := decodeEvents(t, out.String())
	if len(eventsNamed(events, "cancelled")) != 1 {
		t.Errorf("expected one cancelled event, got %v", events)
	}
	if len(eventsNamed(events, "complete")) != 0 {
		t.Errorf("expected no complete event after cancel, got %v", events)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("expected no copies after cancellation")
	}
}

func TestServerRejectsConcurrentScan(t *testing.T) {
	source := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(source, "a.jpg"), "AAAA")
	writeFile(t, filepath.Join(source, "b.jpg"), "A")

	gated := &gatedFingerprinter{
		stub: stubFingerprinter{infos: map[string]ports.ImageInfo{
			"a.jpg": imageInfo(fpBits(), 900),
			"b.jpg": imageInfo(fpBits(1), 100),
		}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	pr, pw := io.Pipe()
	var out bytes.Buffer
	srv := NewServer(gated, pr, &out)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(context.Background()) }()

	fmt.Fprintf(pw, `{"cmd":"scan","source":%q,"output":%q}`+"\n", source, output)
	<-gated.started
	fmt.Fprintf(pw, `{"cmd":"scan","source":%q,"output":%q}`+"\n", source, output)
	// Sending quit before the release forces the second scan command to be
	// judged while the first is still gated.
	fmt.Fprintln(pw, `{"cmd":"quit"}`)
	close(gated.release)
	if err := <-errCh; err != nil {
		t.Fatalf("serve: %v", err)
	}
	pw.Close()

	events := decodeEvents(t, out.String())
	errs := eventsNamed(events, "error")
	if len(errs) != 1 || errs[0]["message"] != "A scan is already running" {
		t.Errorf("expected busy error, got %v", events)
	}
	if len(eventsNamed(events, "complete")) != 1 {
		t.Errorf("expected the first scan to finish, got %v", events)
	}
}
