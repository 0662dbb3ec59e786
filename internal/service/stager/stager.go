package stager

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vocstage/internal/dataset"
	"vocstage/internal/logger"
)

var (
	errMissingSource = errors.New("archive did not produce the expected split directory")
	errTargetExists  = errors.New("dataset directory already exists")
	errUnsafePath    = errors.New("archive entry escapes the extraction directory")
	errEntryType     = errors.New("unsupported archive entry type")
)

// extractedDirPermissions is applied to directories implied by file entries.
const extractedDirPermissions os.FileMode = 0o755

// Stager extracts downloaded archives and promotes split directories out of
// the scratch area into the output directory.
type Stager struct {
	scratchDir string
	outputDir  string
}

// New creates a Stager operating between the given scratch and output directories.
func New(scratchDir, outputDir string) *Stager {
	return &Stager{
		scratchDir: scratchDir,
		outputDir:  outputDir,
	}
}

// Stage consumes one downloaded archive:
// extract into the scratch directory, promote the split directory to its
// target name, discard the wrapper directory, delete the archive file.
// The steps deliberately mutate the output directory and are not idempotent;
// an existing target fails the run instead of being overwritten.
func (s *Stager) Stage(ctx context.Context, a dataset.Archive) error {
	archivePath := a.LocalPath(s.scratchDir)

	logger.InfoKV(ctx, "Extracting archive", "archive", a.Filename)

	if err := extractTar(ctx, archivePath, s.scratchDir); err != nil {
		return fmt.Errorf("extract %s: %w", a.Filename, err)
	}

	sourcePath := a.SourcePath(s.scratchDir)
	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("%s: %w", sourcePath, errMissingSource)
	}

	targetPath := a.TargetPath(s.outputDir)
	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("%s: %w", targetPath, errTargetExists)
	}

	if err := os.Rename(sourcePath, targetPath); err != nil {
		return fmt.Errorf("promote %s: %w", a.Target, err)
	}

	logger.InfoKV(ctx, "Promoted dataset directory", "target", targetPath)

	if err := os.RemoveAll(a.WrapperPath(s.scratchDir)); err != nil {
		return fmt.Errorf("remove wrapper: %w", err)
	}

	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("remove archive: %w", err)
	}

	return nil
}

// extractTar unpacks a tar archive (optionally gzip-compressed) into destDir.
// Entry names are confined to destDir; symlinks and other irregular entries
// are rejected since the VOC archives contain only files and directories.
func extractTar(ctx context.Context, archivePath, destDir string) error {
	archiveFile, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return err
	}

	defer func() {
		_ = archiveFile.Close()
	}()

	var source io.Reader = archiveFile

	if strings.HasSuffix(archivePath, ".tar.gz") || strings.HasSuffix(archivePath, ".tgz") {
		gzipReader, gzErr := gzip.NewReader(archiveFile)
		if gzErr != nil {
			return fmt.Errorf("open gzip stream: %w", gzErr)
		}

		defer func() {
			_ = gzipReader.Close()
		}()

		source = gzipReader
	}

	tarReader := tar.NewReader(source)

	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		header, readErr := tarReader.Next()
		if errors.Is(readErr, io.EOF) {
			return nil
		}

		if readErr != nil {
			return fmt.Errorf("read tar entry: %w", readErr)
		}

		entryPath, pathErr := confinedPath(destDir, header.Name)
		if pathErr != nil {
			return pathErr
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(entryPath, header.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		case tar.TypeReg:
			if err = extractFile(tarReader, entryPath, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: %w", header.Name, errEntryType)
		}
	}
}

// extractFile writes one regular tar entry to disk, creating parent directories as needed.
func extractFile(contents io.Reader, entryPath string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(entryPath), extractedDirPermissions); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	outputFile, err := os.OpenFile(filepath.Clean(entryPath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err = io.Copy(outputFile, contents); err != nil {
		_ = outputFile.Close()

		return fmt.Errorf("write %s: %w", entryPath, err)
	}

	return outputFile.Close()
}

// confinedPath joins an archive entry name onto destDir, rejecting names that
// would escape it.
func confinedPath(destDir, name string) (string, error) {
	entryPath := filepath.Join(destDir, filepath.Clean(name))

	base := filepath.Clean(destDir)
	if entryPath != base && !strings.HasPrefix(entryPath, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s: %w", name, errUnsafePath)
	}

	return entryPath, nil
}
