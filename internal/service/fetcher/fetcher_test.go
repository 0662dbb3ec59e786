package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFetch downloads a file from a test server and verifies its contents.
func TestFetch(t *testing.T) {
	t.Parallel()

	body := []byte("archive-bytes")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar")
	f := New(WithoutProgress())

	require.NoError(t, f.Fetch(context.Background(), ts.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, got)
}

// TestFetchBadStatus ensures a non-2xx response is an error and no file is left behind.
func TestFetchBadStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar")
	f := New(WithoutProgress())

	err := f.Fetch(context.Background(), ts.URL, dest)
	require.Error(t, err)

	_, err = os.Stat(dest)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFetchSkipsCompleteFile verifies a destination matching Content-Length is not rewritten.
func TestFetchSkipsCompleteFile(t *testing.T) {
	t.Parallel()

	body := []byte("already-here")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar")
	// Same size, different bytes: the fetcher only compares sizes.
	existing := []byte("LOCAL-CONTENT")[:len(body)]
	require.NoError(t, os.WriteFile(dest, existing, 0o600))

	f := New(WithoutProgress())
	require.NoError(t, f.Fetch(context.Background(), ts.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, existing, got)
}

// TestFetchRejectsPartialFile ensures a leftover of the wrong size is reported instead of silently resumed.
func TestFetchRejectsPartialFile(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("full-response-body"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar")
	require.NoError(t, os.WriteFile(dest, []byte("stub"), 0o600))

	f := New(WithoutProgress())

	err := f.Fetch(context.Background(), ts.URL, dest)
	require.ErrorIs(t, err, errPartialFile)
}
