package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"dupfinder/internal/adapters/tui/views"
	"dupfinder/internal/ports"
	"dupfinder/internal/scan"
)

// ViewState represents the current view
type ViewState int

const (
	ViewSetup ViewState = iota
	ViewRun
	ViewResults
)

// App is the main TUI application model
type App struct {
	state   ViewState
	setup   *views.SetupModel
	run     *views.RunModel
	results *views.ResultsModel

	mode scan.Mode

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(fp ports.Fingerprinter) *App {
	return &App{
		state:   ViewSetup,
		setup:   views.NewSetupModel(),
		run:     views.NewRunModel(fp),
		results: views.NewResultsModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.setup.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.setup.SetSize(msg.Width, msg.Height)
		a.run.SetSize(msg.Width, msg.Height)
		a.results.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// While a scan runs ctrl+c cancels it instead of killing the
		// program, so the engine can stop at a clean boundary.
		if msg.String() == "ctrl+c" {
			if a.state == ViewRun {
				a.run.RequestCancel()
				return a, nil
			}
			return a, tea.Quit
		}

	case views.StartScanMsg:
		a.state = ViewRun
		a.mode = msg.Options.Mode
		return a, a.run.Start(msg.Options)

	case views.ScanDoneMsg:
		a.state = ViewResults
		a.results.SetResult(msg.Result, a.mode)
		return a, nil

	case views.ScanCancelledMsg:
		a.state = ViewSetup
		a.setup.SetMessage("Scan cancelled.", false)
		return a, nil

	case views.ScanFailedMsg:
		a.state = ViewSetup
		a.setup.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.NewScanMsg:
		a.state = ViewSetup
		a.setup.ClearMessage()
		return a, a.setup.Init()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewSetup:
		_, cmd = a.setup.Update(msg)
	case ViewRun:
		_, cmd = a.run.Update(msg)
	case ViewResults:
		_, cmd = a.results.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewRun:
		return a.run.View()
	case ViewResults:
		return a.results.View()
	default:
		return a.setup.View()
	}
}
