package views

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"dupfinder/internal/adapters/tui/styles"
	"dupfinder/internal/config"
	"dupfinder/internal/scan"
)

// StartScanMsg asks the app to run a scan with the given options.
type StartScanMsg struct {
	Options scan.Options
}

// Field indices in the setup form.
const (
	fieldSource = iota
	fieldOutput
	fieldThreshold
)

// SetupModel is the scan configuration form. Values survive a finished
// or cancelled scan so a follow-up run starts from the previous inputs.
type SetupModel struct {
	ViewState
	form *InputForm
}

// NewSetupModel creates the setup view with the threshold prefilled from
// the environment.
func NewSetupModel() *SetupModel {
	source := NewInputField("Source folder", "folder to scan for duplicate photos", 0)
	output := NewInputField("Output folder", "defaults to <source>/"+config.OutputName(), 0)
	threshold := NewInputField("Threshold (0-256, lower is stricter)", "", 4)

	form := NewInputForm(source, output, threshold)
	form.SetValue(fieldThreshold, strconv.Itoa(config.Threshold()))

	return &SetupModel{form: form}
}

// Init initializes the setup view
func (m *SetupModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the setup view
func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, tea.Quit
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// submit validates the form and hands valid options to the app. Invalid
// input keeps the view up with the validation message shown.
func (m *SetupModel) submit() tea.Cmd {
	opts, err := m.options()
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	if err := scan.Validate(opts); err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	m.ClearMessage()
	return func() tea.Msg {
		return StartScanMsg{Options: opts}
	}
}

// options builds scan options from the form. An empty output field
// defaults to a folder inside the source, like the desktop app suggests.
func (m *SetupModel) options() (scan.Options, error) {
	source := m.form.Value(fieldSource)
	output := m.form.Value(fieldOutput)
	if output == "" && source != "" {
		output = filepath.Join(source, config.OutputName())
	}

	threshold := scan.DefaultThreshold
	if v := m.form.Value(fieldThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return scan.Options{}, fmt.Errorf("threshold must be a number")
		}
		threshold = n
	}

	return scan.Options{
		Source:    source,
		Output:    output,
		Threshold: threshold,
		Mode:      scan.ModeMove,
	}, nil
}

// View renders the setup view
func (m *SetupModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Duplicate Photo Finder"))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("Duplicates move to the output folder; the best copy of each group stays put."))
	b.WriteString("\n\n")

	for i := range m.form.Fields {
		b.WriteString(m.form.RenderField(i))
		b.WriteString("\n\n")
	}

	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.form.RenderHelp("start scan", "quit"))

	return styles.App.Render(b.String())
}
