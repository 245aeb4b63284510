package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"dupfinder/internal/adapters/tui/styles"
	"dupfinder/internal/domain"
	"dupfinder/internal/scan"
)

// NewScanMsg asks the app to show the setup form again.
type NewScanMsg struct{}

// ResultsKeyMap defines key bindings for the results view
type ResultsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Yank     key.Binding
	NewScan  key.Binding
	Quit     key.Binding
}

var ResultsKeys = ResultsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "prev page"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy kept path"),
	),
	NewScan: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new scan"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// ResultsModel shows a finished scan: the summary line and the duplicate
// groups, paginated, with the kept file of each group marked.
type ResultsModel struct {
	ViewState
	result    *scan.Result
	mode      scan.Mode
	paginator *Paginator
}

// NewResultsModel creates the results view
func NewResultsModel() *ResultsModel {
	return &ResultsModel{paginator: NewPaginator(4)}
}

// SetResult installs a finished scan's outcome.
func (m *ResultsModel) SetResult(result *scan.Result, mode scan.Mode) {
	m.result = result
	m.mode = mode
	m.paginator.Reset()
	m.paginator.SetTotal(len(result.Groups))
	m.ClearMessage()
}

// Init initializes the results view
func (m *ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results view
func (m *ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, ResultsKeys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, ResultsKeys.NewScan):
		return m, func() tea.Msg {
			return NewScanMsg{}
		}

	case key.Matches(keyMsg, ResultsKeys.Up):
		m.paginator.CursorUp()
		return m, nil

	case key.Matches(keyMsg, ResultsKeys.Down):
		m.paginator.CursorDown()
		return m, nil

	case key.Matches(keyMsg, ResultsKeys.NextPage):
		m.paginator.NextPage()
		return m, nil

	case key.Matches(keyMsg, ResultsKeys.PrevPage):
		m.paginator.PrevPage()
		return m, nil

	case key.Matches(keyMsg, ResultsKeys.Yank):
		m.yankOriginal()
		return m, nil
	}
	return m, nil
}

// yankOriginal copies the selected group's kept path to the clipboard
func (m *ResultsModel) yankOriginal() {
	g := m.selectedGroup()
	if g == nil {
		return
	}
	path := g.Original().Path
	if err := clipboard.WriteAll(path); err != nil {
		m.SetMessage(fmt.Sprintf("Clipboard unavailable: %v", err), true)
		return
	}
	m.SetMessage(fmt.Sprintf("Copied to clipboard: %s", path), false)
}

// selectedGroup returns the group under the cursor, or nil
func (m *ResultsModel) selectedGroup() *domain.Group {
	if m.result == nil {
		return nil
	}
	cursor := m.paginator.Cursor()
	if cursor < 0 || cursor >= len(m.result.Groups) {
		return nil
	}
	return &m.result.Groups[cursor]
}

// relocatedVerb names what happened to the duplicates of a group
func (m *ResultsModel) relocatedVerb() string {
	if m.mode == scan.ModeCopy {
		return "copied"
	}
	return "moved"
}

// View renders the results view
func (m *ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Scan Results"))
	b.WriteString("\n\n")

	if m.result == nil {
		b.WriteString(styles.MutedText.Render("No scan has run yet."))
		return styles.App.Render(b.String())
	}

	if m.result.Errors > 0 {
		b.WriteString(styles.WarnText.Render(m.result.Summary))
	} else {
		b.WriteString(styles.Success.Render(m.result.Summary))
	}
	b.WriteString("\n\n")

	if len(m.result.Groups) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing was relocated."))
		b.WriteString("\n\n")
	} else {
		start, end := m.paginator.VisibleRange()
		cursor := m.paginator.Cursor()
		for i := start; i < end; i++ {
			m.renderGroup(&b, i, i == cursor)
		}

		if m.paginator.TotalPages() > 1 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("Page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages())))
			b.WriteString("\n\n")
		}
	}

	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderHelp())

	return styles.App.Render(b.String())
}

// renderGroup writes one duplicate group: the kept file first, then where
// its duplicates came from
func (m *ResultsModel) renderGroup(b *strings.Builder, index int, selected bool) {
	g := m.result.Groups[index]
	title := fmt.Sprintf("Group %d (%d files)", index+1, len(g.Records))
	if selected {
		b.WriteString(styles.GroupSelected.Render(" > " + title + " "))
	} else {
		b.WriteString(styles.GroupTitle.Render("   " + title))
	}
	b.WriteString("\n")

	original := g.Original()
	b.WriteString(styles.KeepLine.Render(fmt.Sprintf("     keep    %s", original.Path)))
	b.WriteString("\n")
	for _, r := range g.Duplicates() {
		b.WriteString(styles.DupeLine.Render(fmt.Sprintf("     %-7s %s", m.relocatedVerb(), r.Path)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *ResultsModel) renderHelp() string {
	parts := []string{
		styles.HelpKey.Render("j/k") + " " + styles.HelpDesc.Render("navigate"),
	}
	if m.result != nil && m.paginator.TotalPages() > 1 {
		parts = append(parts, styles.HelpKey.Render("ctrl+f/b")+" "+styles.HelpDesc.Render("page"))
	}
	if m.result != nil && len(m.result.Groups) > 0 {
		parts = append(parts, styles.HelpKey.Render("y")+" "+styles.HelpDesc.Render("copy kept path"))
	}
	parts = append(parts,
		styles.HelpKey.Render("n")+" "+styles.HelpDesc.Render("new scan"),
		styles.HelpKey.Render("q")+" "+styles.HelpDesc.Render("quit"),
	)
	return strings.Join(parts, "  ")
}
