package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TarGzDir packs sourceDir into a gzipped tarball at tarPath for a build
// upload. When renamedDockerfile is non-empty the Dockerfile is stored a
// second time under that name, so the build service can reference a unique
// in-archive path.
func TarGzDir(sourceDir, tarPath, dockerfilePath, renamedDockerfile string) error {
	out, err := os.Create(tarPath)
	if err != nil {
		return fmt.Errorf("creating archive '%s': %w", tarPath, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(sourceDir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		return addTarEntry(tw, p, filepath.ToSlash(rel))
	})
	if err == nil && renamedDockerfile != "" {
		err = addTarEntry(tw, dockerfilePath, renamedDockerfile)
	}
	if err != nil {
		tw.Close()
		gz.Close()
		return fmt.Errorf("archiving '%s': %w", sourceDir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing archive '%s': %w", tarPath, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalizing archive '%s': %w", tarPath, err)
	}
	return nil
}

func addTarEntry(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
