package domain

import (
	"path/filepath"
	"time"
)

// Record is one successfully fingerprinted image from a scan.
type Record struct {
	ID          int    // Position in scan order (dense, starting at 0)
	Path        string // Absolute or scan-relative path on disk
	Fingerprint Fingerprint
	Size        int64
	ModTime     time.Time
}

// Name returns the base name of the record's path.
func (r *Record) Name() string {
	return filepath.Base(r.Path)
}
