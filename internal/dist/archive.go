package dist

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// errUnsafePath is returned when an archive entry would escape the
// extraction directory.
var errUnsafePath = errors.New("archive entry has unsafe path")

// CreateArchive packages the named files into a gzip-compressed tar archive.
// Entries are stored under their base names so the archive extracts flat.
func CreateArchive(archivePath string, files []string) error {
	out, err := os.Create(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	gzWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzWriter)

	for _, file := range files {
		if err = addFileToArchive(tarWriter, file); err != nil {
			_ = tarWriter.Close()
			_ = gzWriter.Close()
			_ = out.Close()

			return err
		}
	}

	if err = tarWriter.Close(); err != nil {
		_ = gzWriter.Close()
		_ = out.Close()

		return fmt.Errorf("finish archive: %w", err)
	}

	if err = gzWriter.Close(); err != nil {
		_ = out.Close()

		return fmt.Errorf("finish compression: %w", err)
	}

	return out.Close()
}

// addFileToArchive writes one file entry with its base name and mode.
func addFileToArchive(tarWriter *tar.Writer, file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("archive header for %s: %w", file, err)
	}

	header.Name = filepath.Base(file)

	if err = tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("write header for %s: %w", file, err)
	}

	in, err := os.Open(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}

	if _, err = io.Copy(tarWriter, in); err != nil {
		_ = in.Close()

		return fmt.Errorf("archive %s: %w", file, err)
	}

	return in.Close()
}

// ExtractArchive unpacks a flat gzip-compressed tar archive into destDir
// and returns the extracted file paths.
func ExtractArchive(archivePath, destDir string) ([]string, error) {
	in, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = in.Close()
	}()

	gzReader, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("read compression: %w", err)
	}

	defer func() {
		_ = gzReader.Close()
	}()

	var (
		tarReader = tar.NewReader(gzReader)
		extracted []string
	)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Base(header.Name)
		if name != header.Name || strings.Contains(name, "..") {
			return nil, fmt.Errorf("%s: %w", header.Name, errUnsafePath)
		}

		outputPath := filepath.Join(destDir, name)
		if err = writeExtractedFile(outputPath, tarReader, header.FileInfo().Mode()); err != nil {
			return nil, err
		}

		extracted = append(extracted, outputPath)
	}

	return extracted, nil
}

// writeExtractedFile streams one archive entry to disk with its mode.
func writeExtractedFile(path string, contents io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err = io.Copy(out, contents); err != nil {
		_ = out.Close()

		return fmt.Errorf("extract %s: %w", path, err)
	}

	return out.Close()
}
