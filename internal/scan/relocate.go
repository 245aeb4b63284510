package scan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// destinationPath returns a free destination for name inside outputDir,
// appending _1, _2, ... before the extension until no entry with that
// name exists. Check and create are not atomic; the engine assumes a
// single scan per output folder.
func destinationPath(outputDir, name string) string {
	dest := filepath.Join(outputDir, name)
	if !entryExists(dest) {
		return dest
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		dest = filepath.Join(outputDir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if !entryExists(dest) {
			return dest
		}
	}
}

func entryExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// relocate moves or copies src into outputDir under a collision-free
// name and returns the destination path. Both modes preserve the file's
// modification time: copies restore it explicitly, renames keep it.
func relocate(src, outputDir string, mode Mode) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output folder: %w", err)
	}
	dest := destinationPath(outputDir, filepath.Base(src))

	if mode == ModeCopy {
		if err := copyFile(src, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	if err := os.Rename(src, dest); err != nil {
		// Rename cannot cross devices; fall back to copy and remove.
		if err := copyFile(src, dest); err != nil {
			return "", err
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("failed to remove source after copy: %w", err)
		}
	}
	return dest, nil
}

// copyFile copies src to dest, carrying over the source's permission
// bits and modification time. dest must not exist yet.
func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}
	if err := os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve modification time: %w", err)
	}
	return nil
}
