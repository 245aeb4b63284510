package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"dupfinder/internal/scan"
)

var (
	statusColor  = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	summaryColor = color.New(color.FgGreen, color.Bold)
	keepColor    = color.New(color.FgGreen)
)

// eventRenderer prints the scan event stream as terminal output.
// Progress updates rewrite one line in place; any other event first
// finishes that line.
type eventRenderer struct {
	inProgress bool
}

func (r *eventRenderer) render(e scan.Event) {
	switch ev := e.(type) {
	case scan.StatusEvent:
		r.breakProgress()
		statusColor.Println(ev.Message)
	case scan.LogEvent:
		r.breakProgress()
		switch {
		case strings.Contains(ev.Message, "Failed to"):
			failColor.Println(ev.Message)
		case strings.HasPrefix(ev.Message, "Skipped") || strings.HasPrefix(ev.Message, "Access denied"):
			warnColor.Println(ev.Message)
		case strings.HasPrefix(ev.Message, "Done!"):
			summaryColor.Println(ev.Message)
		default:
			fmt.Println(ev.Message)
		}
	case scan.ProgressEvent:
		fmt.Printf("\r%d/%d", ev.Current, ev.Total)
		r.inProgress = true
	}
	// Terminal events carry nothing the log lines have not already said.
}

func (r *eventRenderer) breakProgress() {
	if r.inProgress {
		fmt.Println()
		r.inProgress = false
	}
}

// printDetection lists what a scan would do, without touching any file.
func printDetection(det *scan.Detection, mode scan.Mode) {
	if len(det.Groups) == 0 {
		fmt.Println("No duplicates found.")
		return
	}
	duplicates := 0
	for i, g := range det.Groups {
		fmt.Printf("Group %d:\n", i+1)
		keepColor.Printf("  keep  %s\n", g.Original().Path)
		for _, dup := range g.Duplicates() {
			fmt.Printf("  %s  %s\n", mode, dup.Path)
			duplicates++
		}
	}
	fmt.Printf("%d duplicate group(s), %d file(s) to %s.\n", len(det.Groups), duplicates, mode)
}
