package ports

import (
	"time"

	"dupfinder/internal/domain"
)

// ImageInfo is the result of fingerprinting one image file.
type ImageInfo struct {
	Fingerprint domain.Fingerprint
	Size        int64
	ModTime     time.Time
}

// Fingerprinter computes perceptual fingerprints for image files. The
// scanner treats every failure the same way: log, count, skip the file.
type Fingerprinter interface {
	// Compute decodes the image at path and returns its fingerprint along
	// with the file attributes used to pick group originals.
	Compute(path string) (ImageInfo, error)
}
