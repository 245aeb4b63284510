package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"dupfinder/internal/adapters/tui/styles"
	"dupfinder/internal/ports"
	"dupfinder/internal/scan"
)

// ScanDoneMsg reports a finished scan.
type ScanDoneMsg struct {
	Result *scan.Result
}

// ScanCancelledMsg reports a scan stopped by the user.
type ScanCancelledMsg struct{}

// ScanFailedMsg reports a scan that ended with an error.
type ScanFailedMsg struct {
	Err error
}

// engineMsg carries one engine event into the program.
type engineMsg struct {
	event scan.Event
}

// engineOutcomeMsg carries the engine's return values. It is always the
// last message a scan produces.
type engineOutcomeMsg struct {
	result *scan.Result
	err    error
}

// RunKeyMap defines key bindings for the run view
type RunKeyMap struct {
	Cancel key.Binding
}

var RunKeys = RunKeyMap{
	Cancel: key.NewBinding(
		key.WithKeys("esc", "c"),
		key.WithHelp("esc", "cancel"),
	),
}

// RunModel drives a scan on a worker goroutine and renders its event
// stream: a status line, a progress bar while hashing and the log panel.
type RunModel struct {
	ViewState
	fp ports.Fingerprinter

	spinner spinner.Model
	bar     progress.Model
	logs    viewport.Model
	follow  bool

	status  string
	lines   []string
	current int
	total   int

	events     chan tea.Msg
	cancel     context.CancelFunc
	cancelling bool
}

// NewRunModel creates the run view
func NewRunModel(fp ports.Fingerprinter) *RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &RunModel{
		fp:      fp,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		logs:    viewport.New(72, 10),
		follow:  true,
	}
}

// SetSize updates the view dimensions, resizing the bar and log panel
func (m *RunModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.bar.Width = max(10, width-20)
	m.logs.Width = max(20, width-8)
	m.logs.Height = max(4, height-14)
}

// Init initializes the run view
func (m *RunModel) Init() tea.Cmd {
	return nil
}

// Start launches the scan and returns the commands that pump its events
// into the program. The engine goroutine owns the event channel: it sends
// every sink event, then the outcome, then closes it.
func (m *RunModel) Start(opts scan.Options) tea.Cmd {
	m.status = "Starting..."
	m.lines = nil
	m.current, m.total = 0, 0
	m.cancelling = false
	m.follow = true
	m.logs.SetContent("")

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 64)
	m.cancel = cancel
	m.events = events

	job := scan.New(m.fp, scan.SinkFunc(func(e scan.Event) {
		events <- engineMsg{event: e}
	}), opts)

	go func() {
		result, err := job.Execute(ctx)
		events <- engineOutcomeMsg{result: result, err: err}
		close(events)
		cancel()
	}()

	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the next engine message
func (m *RunModel) next() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// RequestCancel asks the engine to stop. The confirmation arrives through
// the event stream, so the view keeps rendering until the engine is done.
func (m *RunModel) RequestCancel() {
	if m.cancel != nil {
		m.cancelling = true
		m.cancel()
	}
}

// Update handles messages for the run view
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case engineMsg:
		m.apply(msg.event)
		return m, m.next()

	case engineOutcomeMsg:
		m.cancel = nil
		m.events = nil
		switch {
		case errors.Is(msg.err, context.Canceled):
			return m, func() tea.Msg { return ScanCancelledMsg{} }
		case msg.err != nil:
			err := msg.err
			return m, func() tea.Msg { return ScanFailedMsg{Err: err} }
		default:
			result := msg.result
			return m, func() tea.Msg { return ScanDoneMsg{Result: result} }
		}

	case tea.KeyMsg:
		if key.Matches(msg, RunKeys.Cancel) {
			m.RequestCancel()
			return m, nil
		}
		// Remaining keys scroll the log panel.
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		m.follow = m.logs.AtBottom()
		return m, cmd
	}
	return m, nil
}

// apply folds one engine event into the view state
func (m *RunModel) apply(e scan.Event) {
	switch e := e.(type) {
	case scan.StatusEvent:
		m.status = e.Message
	case scan.LogEvent:
		m.lines = append(m.lines, e.Message)
		m.logs.SetContent(strings.Join(m.lines, "\n"))
		if m.follow {
			m.logs.GotoBottom()
		}
	case scan.ProgressEvent:
		m.current, m.total = e.Current, e.Total
	}
}

// View renders the run view
func (m *RunModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Scanning"))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(styles.StatusLine.Render(m.status))
	b.WriteString("\n\n")

	if m.total > 0 {
		b.WriteString(m.bar.ViewAs(float64(m.current) / float64(m.total)))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(" %d/%d", m.current, m.total)))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.LogPanel.Render(m.logs.View()))
	b.WriteString("\n\n")

	if m.cancelling {
		b.WriteString(styles.WarnText.Render("Cancelling..."))
	} else {
		b.WriteString(styles.HelpKey.Render("esc"))
		b.WriteString(styles.HelpDesc.Render(" cancel"))
		b.WriteString(styles.HelpSeparator.String())
		b.WriteString(styles.HelpKey.Render("↑/↓"))
		b.WriteString(styles.HelpDesc.Render(" scroll log"))
	}

	return styles.App.Render(b.String())
}
