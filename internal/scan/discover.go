package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// resolvePath makes path absolute and follows symlinks when the target
// exists, so the output folder is recognized under any alias it might be
// reached through.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// underDir reports whether path equals dir or lies beneath it.
func underDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// discoverImages walks source and collects every supported image file.
// The output folder is skipped wherever it appears inside source, even
// when it already exists before the scan. Unreadable directories are
// reported through the sink and traversal continues with their siblings.
// Output may be empty, in which case nothing is excluded.
func discoverImages(source, output string, sink Sink) []string {
	outputResolved := ""
	if output != "" {
		outputResolved = resolvePath(output)
	}

	var images []string
	filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			sink.Emit(LogEvent{Message: fmt.Sprintf("Access denied: %s", path)})
			return nil
		}
		if d.IsDir() {
			if outputResolved != "" && underDir(resolvePath(path), outputResolved) {
				return fs.SkipDir
			}
			return nil
		}
		if SupportedFile(path) {
			images = append(images, path)
		}
		return nil
	})
	return images
}
