package views

import (
	"path/filepath"
	"strings"
	"testing"

	"dupfinder/internal/scan"
)

func newTestSetup(t *testing.T) *SetupModel {
	t.Helper()
	t.Setenv("DUPFINDER_THRESHOLD", "")
	t.Setenv("DUPFINDER_OUTPUT", "")
	return NewSetupModel()
}

func TestSetupOptions(t *testing.T) {
	t.Run("defaults output into the source folder", func(t *testing.T) {
		m := newTestSetup(t)
		m.form.SetValue(fieldSource, "/photos")

		opts, err := m.options()
		if err != nil {
			t.Fatalf("options: %v", err)
		}
		if opts.Source != "/photos" {
			t.Errorf("expected source /photos, got %s", opts.Source)
		}
		if want := filepath.Join("/photos", "duplicates"); opts.Output != want {
			t.Errorf("expected output %s, got %s", want, opts.Output)
		}
		if opts.Threshold != scan.DefaultThreshold {
			t.Errorf("expected default threshold %d, got %d", scan.DefaultThreshold, opts.Threshold)
		}
		if opts.Mode != scan.ModeMove {
			t.Errorf("expected move mode, got %s", opts.Mode)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		m := newTestSetup(t)
		m.form.SetValue(fieldSource, "/photos")
		m.form.SetValue(fieldOutput, "/elsewhere")
		m.form.SetValue(fieldThreshold, "5")

		opts, err := m.options()
		if err != nil {
			t.Fatalf("options: %v", err)
		}
		if opts.Output != "/elsewhere" {
			t.Errorf("expected output /elsewhere, got %s", opts.Output)
		}
		if opts.Threshold != 5 {
			t.Errorf("expected threshold 5, got %d", opts.Threshold)
		}
	})

	t.Run("threshold must be numeric", func(t *testing.T) {
		m := newTestSetup(t)
		m.form.SetValue(fieldSource, "/photos")
		m.form.SetValue(fieldThreshold, "many")

		if _, err := m.options(); err == nil {
			t.Fatal("expected an error for a non-numeric threshold")
		}
	})

	t.Run("threshold prefilled from environment", func(t *testing.T) {
		t.Setenv("DUPFINDER_THRESHOLD", "12")
		t.Setenv("DUPFINDER_OUTPUT", "")
		m := NewSetupModel()
		if got := m.form.Value(fieldThreshold); got != "12" {
			t.Errorf("expected threshold field 12, got %q", got)
		}
	})
}

func TestSetupSubmit(t *testing.T) {
	t.Run("invalid input keeps the form with a message", func(t *testing.T) {
		m := newTestSetup(t)

		if cmd := m.submit(); cmd != nil {
			t.Error("expected no command for an empty form")
		}
		if !m.MessageErr || !strings.Contains(m.Message, "source folder is required") {
			t.Errorf("expected source validation message, got %q", m.Message)
		}
	})

	t.Run("same source and output rejected", func(t *testing.T) {
		dir := t.TempDir()
		m := newTestSetup(t)
		m.form.SetValue(fieldSource, dir)
		m.form.SetValue(fieldOutput, dir)

		if cmd := m.submit(); cmd != nil {
			t.Error("expected no command when source equals output")
		}
		if !strings.Contains(m.Message, "cannot be the same") {
			t.Errorf("expected same-folder message, got %q", m.Message)
		}
	})

	t.Run("valid input starts a scan", func(t *testing.T) {
		dir := t.TempDir()
		m := newTestSetup(t)
		m.form.SetValue(fieldSource, dir)

		cmd := m.submit()
		if cmd == nil {
			t.Fatal("expected a start command")
		}
		msg, ok := cmd().(StartScanMsg)
		if !ok {
			t.Fatalf("expected StartScanMsg, got %T", cmd())
		}
		if msg.Options.Source != dir {
			t.Errorf("expected source %s, got %s", dir, msg.Options.Source)
		}
		if want := filepath.Join(dir, "duplicates"); msg.Options.Output != want {
			t.Errorf("expected output %s, got %s", want, msg.Options.Output)
		}
		if m.Message != "" {
			t.Errorf("expected message cleared, got %q", m.Message)
		}
	})
}
