package cpp

import (
	"os"
	"path/filepath"
)

// WriteFiles persists each rendered file under outputDir, preserving the
// project-relative paths used as Render's map keys, and returns their
// total rendered length.
func WriteFiles(outputDir string, rendered map[string]string) (int, error) {
	total := 0

	for relPath, contents := range rendered {
		full := filepath.Join(outputDir, relPath)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return total, err
		}
		if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
			return total, err
		}
		total += len(contents)
	}

	return total, nil
}
