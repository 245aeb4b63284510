package phash

import (
	"fmt"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	_ "github.com/vegidio/heif-go" // Registers HEIC/HEIF decoding
	_ "golang.org/x/image/webp"    // imaging covers bmp and tiff, webp needs its own registration

	"dupfinder/internal/domain"
	"dupfinder/internal/ports"
)

// hashSize is the per-axis DCT block size: 16x16 cells make a 256-bit hash.
const hashSize = 16

// Provider computes perceptual hashes for image files on disk. It is the
// production implementation of ports.Fingerprinter.
type Provider struct{}

// NewProvider creates a Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Compute opens, decodes and hashes the image at path. EXIF orientation
// is applied before hashing so rotated exports match their originals.
// File size and modification time come from the same open handle.
func (p *Provider) Compute(path string) (ports.ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.ImageInfo{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return ports.ImageInfo{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	hash, err := goimagehash.ExtPerceptionHash(img, hashSize, hashSize)
	if err != nil {
		return ports.ImageInfo{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	fp, err := domain.FingerprintFromWords(hash.GetHash())
	if err != nil {
		return ports.ImageInfo{}, err
	}

	info, err := f.Stat()
	if err != nil {
		return ports.ImageInfo{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return ports.ImageInfo{
		Fingerprint: fp,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}
