package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateSourceDir validates and cleans a source directory path
// Returns the cleaned absolute path or an error
func ValidateSourceDir(sourceDir string) (string, error) {
	sourceDir = filepath.Clean(sourceDir)

	info, err := os.Stat(sourceDir)
	if err != nil {
		return "", fmt.Errorf("cannot access path '%s': %w", sourceDir, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("path '%s' is not a directory", sourceDir)
	}

	absPath, err := filepath.Abs(sourceDir)
	if err != nil {
		return sourceDir, nil // Return cleaned path if we can't get absolute
	}

	return absPath, nil
}

// RequireDockerfile verifies that a Dockerfile exists at the root of the
// source directory and returns its path.
func RequireDockerfile(sourceDir string) (string, error) {
	dockerfile := filepath.Join(sourceDir, "Dockerfile")
	info, err := os.Stat(dockerfile)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("unable to find '%s'", dockerfile)
	}
	return dockerfile, nil
}
