package protocol

import "dupfinder/internal/scan"

// Wire shapes. Every output line is one JSON object tagged by "event".

type messageEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type progressEvent struct {
	Event   string `json:"event"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

type completeEvent struct {
	Event   string `json:"event"`
	Summary string `json:"summary"`
	Groups  int    `json:"groups"`
	Moved   int    `json:"moved"`
	Errors  int    `json:"errors"`
}

type bareEvent struct {
	Event string `json:"event"`
}

// encode maps an engine event onto its wire shape.
func encode(e scan.Event) any {
	switch ev := e.(type) {
	case scan.StatusEvent:
		return messageEvent{Event: "status", Message: ev.Message}
	case scan.LogEvent:
		return messageEvent{Event: "log", Message: ev.Message}
	case scan.ProgressEvent:
		return progressEvent{Event: "progress", Current: ev.Current, Total: ev.Total}
	case scan.CompleteEvent:
		return completeEvent{Event: "complete", Summary: ev.Summary, Groups: ev.Groups, Moved: ev.Moved, Errors: ev.Errors}
	case scan.CancelledEvent:
		return bareEvent{Event: "cancelled"}
	default:
		return nil
	}
}
