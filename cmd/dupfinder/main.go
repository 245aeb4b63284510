package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dupfinder/internal/adapters/phash"
	"dupfinder/internal/adapters/tui"
)

func main() {
	app := tui.NewApp(phash.NewProvider())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
