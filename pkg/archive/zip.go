package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"azup/pkg/detector"
)

// ZipDir archives the contents of sourceDir into "<sourceDir>.zip" next to
// it and returns the archive path. Directories the remote build regenerates
// are skipped: node_modules for node apps, bin/ and obj/ for netcore.
func ZipDir(sourceDir string, lang detector.Language) (string, error) {
	absSrc, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("resolving '%s': %w", sourceDir, err)
	}

	zipPath := absSrc + ".zip"
	out, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating archive '%s': %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(absSrc, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != absSrc && skippedDir(lang, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(absSrc, p)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return "", fmt.Errorf("archiving '%s': %w", absSrc, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive '%s': %w", zipPath, err)
	}
	return zipPath, nil
}

// skippedDir reports whether a directory holds build output the platform
// rebuilds remotely.
func skippedDir(lang detector.Language, name string) bool {
	switch lang {
	case detector.LanguageNode:
		return name == "node_modules"
	case detector.LanguageNetcore:
		return name == "bin" || name == "obj"
	default:
		return false
	}
}
