package pipeline

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir pins the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}

// TestIsStagerRunningNow covers the fresh-marker, stale-marker and no-marker cases.
// The marker path is process-relative, so the test pins the working directory.
func TestIsStagerRunningNow(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	ctx := context.Background()

	// No marker.
	require.False(t, IsStagerRunningNow(ctx))

	// Fresh marker means another run is active.
	require.NoError(t, os.WriteFile(MarkerFilename, nil, 0o600))
	require.True(t, IsStagerRunningNow(ctx))

	// A stale marker is recovered: no lingering process exists, so the
	// marker is removed and the run may proceed.
	past := time.Now().Add(-2 * markerLifetime)
	require.NoError(t, os.Chtimes(MarkerFilename, past, past))
	require.False(t, IsStagerRunningNow(ctx))

	_, err := os.Stat(MarkerFilename)
	require.ErrorIs(t, err, os.ErrNotExist)
}
