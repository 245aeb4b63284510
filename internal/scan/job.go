package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dupfinder/internal/domain"
	"dupfinder/internal/ports"
)

// Result is what a finished scan produced.
type Result struct {
	Summary string
	Groups  []domain.Group
	Scanned int // Successfully fingerprinted images
	Moved   int // Files relocated into the output folder
	Errors  int // Fingerprint failures plus relocation failures
}

// Detection is the outcome of the discovery, hashing and grouping phases.
type Detection struct {
	Discovered int // Image files found by the walk
	Records    []*domain.Record
	Groups     []domain.Group
	Errors     int // Fingerprint failures
}

// Job is one configured scan over a source folder. Build it with New,
// then call Execute (or Detect) once. Cancel by cancelling the context;
// the job stops at the next file or group boundary, emits its cancelled
// events and returns the context's error. Files already relocated stay
// where they are.
type Job struct {
	fp   ports.Fingerprinter
	sink Sink
	opts Options
}

// New creates a scan job. A nil sink discards all events.
func New(fp ports.Fingerprinter, sink Sink, opts Options) *Job {
	if sink == nil {
		sink = Discard
	}
	return &Job{fp: fp, sink: sink, opts: opts}
}

// validateSource covers the options Detect needs.
func validateSource(opts Options) error {
	if strings.TrimSpace(opts.Source) == "" {
		return &ValidationError{Field: "source", Message: "source folder is required"}
	}
	info, err := os.Stat(opts.Source)
	if err != nil {
		return &ValidationError{Field: "source", Message: fmt.Sprintf("source folder does not exist: %s", opts.Source)}
	}
	if !info.IsDir() {
		return &ValidationError{Field: "source", Message: fmt.Sprintf("source is not a folder: %s", opts.Source)}
	}
	if opts.Threshold < 0 || opts.Threshold > MaxThreshold {
		return &ValidationError{Field: "threshold", Message: fmt.Sprintf("threshold must be between 0 and %d", MaxThreshold)}
	}
	return nil
}

// Validate checks that opts describe a runnable full scan.
func Validate(opts Options) error {
	if err := validateSource(opts); err != nil {
		return err
	}
	if strings.TrimSpace(opts.Output) == "" {
		return &ValidationError{Field: "output", Message: "output folder is required"}
	}
	if resolvePath(opts.Source) == resolvePath(opts.Output) {
		return &ValidationError{Field: "output", Message: "source and output folders cannot be the same"}
	}
	return nil
}

// Validate checks that the job can run a full scan.
func (j *Job) Validate() error {
	return Validate(j.opts)
}

// checkCancelled emits the cancellation status lines and returns the
// context's error once ctx is done. The terminal CancelledEvent is left
// to Execute.
func (j *Job) checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		j.sink.Emit(LogEvent{Message: "Scan cancelled by user."})
		j.sink.Emit(StatusEvent{Message: "Cancelled."})
		return ctx.Err()
	default:
		return nil
	}
}

// Detect runs discovery, hashing and grouping without touching any file
// and without emitting a terminal event. Output may be left empty; it is
// only used to exclude that folder from discovery.
func (j *Job) Detect(ctx context.Context) (*Detection, error) {
	if err := validateSource(j.opts); err != nil {
		return nil, err
	}
	return j.detect(ctx)
}

func (j *Job) detect(ctx context.Context) (*Detection, error) {
	j.sink.Emit(StatusEvent{Message: "Scanning for images..."})
	j.sink.Emit(LogEvent{Message: fmt.Sprintf("Scanning %s...", j.opts.Source)})

	images := discoverImages(j.opts.Source, j.opts.Output, j.sink)
	if err := j.checkCancelled(ctx); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		j.sink.Emit(LogEvent{Message: "No supported image files found."})
		j.sink.Emit(StatusEvent{Message: "No images found."})
		return &Detection{}, nil
	}

	j.sink.Emit(LogEvent{Message: fmt.Sprintf("Found %d images", len(images))})
	j.sink.Emit(StatusEvent{Message: "Computing image hashes..."})

	var records []*domain.Record
	errors := 0
	for i, path := range images {
		if err := j.checkCancelled(ctx); err != nil {
			return nil, err
		}
		info, err := j.fp.Compute(path)
		if err != nil {
			errors++
			j.sink.Emit(LogEvent{Message: fmt.Sprintf("Skipped (error): %s", filepath.Base(path))})
		} else {
			records = append(records, &domain.Record{
				ID:          len(records),
				Path:        path,
				Fingerprint: info.Fingerprint,
				Size:        info.Size,
				ModTime:     info.ModTime,
			})
		}
		j.sink.Emit(ProgressEvent{Current: i + 1, Total: len(images)})
	}

	j.sink.Emit(StatusEvent{Message: "Identifying duplicates..."})
	j.sink.Emit(LogEvent{Message: "Grouping duplicates..."})

	return &Detection{
		Discovered: len(images),
		Records:    records,
		Groups:     domain.GroupRecords(records, j.opts.Threshold),
		Errors:     errors,
	}, nil
}

// Execute runs the full pipeline: discover, fingerprint, group, relocate.
// Events stream through the sink as the phases advance and exactly one
// terminal event is emitted before Execute returns.
func (j *Job) Execute(ctx context.Context) (*Result, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	det, err := j.detect(ctx)
	if err != nil {
		j.sink.Emit(CancelledEvent{})
		return nil, err
	}

	if det.Discovered == 0 {
		summary := "No images found."
		j.sink.Emit(CompleteEvent{Summary: summary})
		return &Result{Summary: summary}, nil
	}

	if len(det.Groups) == 0 {
		j.sink.Emit(LogEvent{Message: "No duplicates found."})
		j.sink.Emit(StatusEvent{Message: "Complete - no duplicates found."})
		summary := fmt.Sprintf("Scanned %d images. No duplicates found. %d errors.", len(det.Records), det.Errors)
		j.sink.Emit(CompleteEvent{Summary: summary, Errors: det.Errors})
		return &Result{Summary: summary, Scanned: len(det.Records), Errors: det.Errors}, nil
	}

	totalDupes := 0
	for _, g := range det.Groups {
		totalDupes += len(g.Records) - 1
	}
	j.sink.Emit(LogEvent{Message: fmt.Sprintf("Found %d duplicate group(s) (%d duplicates)", len(det.Groups), totalDupes)})
	j.sink.Emit(StatusEvent{Message: j.opts.Mode.statusLine()})

	moved := 0
	relocErrors := 0
	for _, g := range det.Groups {
		if err := j.checkCancelled(ctx); err != nil {
			j.sink.Emit(CancelledEvent{})
			return nil, err
		}

		j.sink.Emit(LogEvent{Message: j.opts.Mode.originalLine(g.Original())})
		for _, dup := range g.Duplicates() {
			dest, err := relocate(dup.Path, j.opts.Output, j.opts.Mode)
			if err != nil {
				relocErrors++
				j.sink.Emit(LogEvent{Message: j.opts.Mode.failedLine(dup)})
				continue
			}
			moved++
			j.sink.Emit(LogEvent{Message: j.opts.Mode.relocatedLine(dup, dest)})
		}
	}

	totalErrors := det.Errors + relocErrors
	summary := j.opts.Mode.summaryLine(len(det.Groups), moved, totalErrors)
	j.sink.Emit(LogEvent{Message: fmt.Sprintf("Done! %s", summary)})
	j.sink.Emit(StatusEvent{Message: "Complete."})
	j.sink.Emit(CompleteEvent{Summary: summary, Groups: len(det.Groups), Moved: moved, Errors: totalErrors})

	return &Result{
		Summary: summary,
		Groups:  det.Groups,
		Scanned: len(det.Records),
		Moved:   moved,
		Errors:  totalErrors,
	}, nil
}
