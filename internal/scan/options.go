package scan

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"dupfinder/internal/domain"
)

// DefaultThreshold is the default Hamming distance, in bits out of
// domain.FingerprintBits, under which two images count as duplicates.
// It is a raw bit count, not a normalized fraction.
const DefaultThreshold = 20

// MaxThreshold is the largest meaningful threshold: every pair of
// fingerprints is within it.
const MaxThreshold = domain.FingerprintBits

// Mode selects what happens to the duplicates of each group.
type Mode int

const (
	// ModeMove relocates duplicates into the output folder.
	ModeMove Mode = iota
	// ModeCopy copies duplicates into the output folder and leaves the
	// source files in place.
	ModeCopy
)

func (m Mode) String() string {
	if m == ModeCopy {
		return "copy"
	}
	return "move"
}

// statusLine is the status shown while duplicates are relocated.
func (m Mode) statusLine() string {
	if m == ModeCopy {
		return "Copying similar photos..."
	}
	return "Moving duplicates..."
}

func (m Mode) originalLine(r *domain.Record) string {
	if m == ModeCopy {
		return fmt.Sprintf("Original (kept): %s (%d bytes)", r.Name(), r.Size)
	}
	return fmt.Sprintf("Original: %s (%d bytes)", r.Name(), r.Size)
}

func (m Mode) relocatedLine(r *domain.Record, dest string) string {
	if m == ModeCopy {
		return fmt.Sprintf("  Copied similar: %s -> %s", r.Name(), filepath.Base(dest))
	}
	return fmt.Sprintf("  Moved: %s -> %s", r.Name(), filepath.Base(dest))
}

func (m Mode) failedLine(r *domain.Record) string {
	if m == ModeCopy {
		return fmt.Sprintf("  Failed to copy: %s", r.Name())
	}
	return fmt.Sprintf("  Failed to move: %s", r.Name())
}

func (m Mode) summaryLine(groups, moved, errors int) string {
	if m == ModeCopy {
		return fmt.Sprintf("%d duplicate group(s) found. %d similar photo(s) copied. %d error(s).", groups, moved, errors)
	}
	return fmt.Sprintf("%d duplicate group(s) found. %d file(s) moved. %d error(s).", groups, moved, errors)
}

// Options configures one scan run.
type Options struct {
	Source    string // Folder scanned recursively for images
	Output    string // Folder duplicates are relocated into
	Threshold int    // Max Hamming distance for two images to match
	Mode      Mode
}

// supportedExtensions are the lowercased file extensions the scanner
// picks up, matching the formats the fingerprinter can decode.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
	".heic": true,
	".heif": true,
}

// SupportedFile reports whether path has a recognized image extension.
// The check is case-insensitive.
func SupportedFile(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions returns the recognized extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
