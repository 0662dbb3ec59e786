package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"vocstage/internal/logger"
)

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	errPartialFile   = errors.New("destination exists with a different size, remove it and retry")
)

// Fetcher downloads remote archives into the scratch directory.
type Fetcher struct {
	client   *http.Client
	progress bool
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the HTTP client used for downloads.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithoutProgress disables the terminal progress bar. Used by tests and
// non-interactive runs.
func WithoutProgress() Option {
	return func(f *Fetcher) {
		f.progress = false
	}
}

// New creates a Fetcher using http.DefaultClient unless overridden.
func New(options ...Option) *Fetcher {
	f := &Fetcher{
		client:   http.DefaultClient,
		progress: true,
	}

	for _, option := range options {
		option(f)
	}

	return f
}

// Fetch retrieves rawURL and writes it to destPath. A non-2xx response is an
// error; there are no retries. A destination that already holds the complete
// file is skipped, any other leftover is reported so the caller can decide.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	response, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%s, %s: %w", rawURL, response.Status, errBadHTTPStatus)
	}

	if info, statErr := os.Stat(destPath); statErr == nil {
		if response.ContentLength > 0 && info.Size() == response.ContentLength {
			logger.InfoKV(ctx, "Archive is already complete, skipping download", "path", destPath)
			return nil
		}

		return fmt.Errorf("%s: %w", destPath, errPartialFile)
	}

	outputFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	var destination io.Writer = outputFile

	if f.progress {
		bar := newBar(filepath.Base(destPath), response.ContentLength)

		defer func() {
			_ = bar.Close()
		}()

		_ = bar.RenderBlank()
		destination = io.MultiWriter(outputFile, bar)
	}

	if _, err = io.Copy(destination, response.Body); err != nil {
		_ = outputFile.Close()
		_ = os.Remove(destPath)

		return fmt.Errorf("download %s: %w", rawURL, err)
	}

	if err = outputFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destPath, err)
	}

	logger.InfoKV(ctx, "Downloaded archive", "path", destPath)

	return nil
}

// newBar builds a byte-oriented progress bar. A negative length renders a spinner.
func newBar(description string, length int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		length,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
