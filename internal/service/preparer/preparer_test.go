package preparer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRun executes a real command in the work directory and checks its side effect.
func TestRun(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}

	dir := t.TempDir()

	err := Run(context.Background(), dir, []string{"sh", "-c", "echo prepared > prepared.txt"})
	require.NoError(t, err)

	contents, readErr := os.ReadFile(filepath.Join(dir, "prepared.txt"))
	require.NoError(t, readErr)
	require.Equal(t, "prepared\n", string(contents))
}

// TestRunFailure surfaces a non-zero exit status as an error.
func TestRunFailure(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}

	err := Run(context.Background(), t.TempDir(), []string{"sh", "-c", "exit 3"})
	require.Error(t, err)
}

// TestRunMissingCommand validates the empty-command and unknown-binary cases.
func TestRunMissingCommand(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), t.TempDir(), nil)
	require.ErrorIs(t, err, errNoCommand)

	err = Run(context.Background(), t.TempDir(), []string{"vocstage-no-such-binary"})
	require.Error(t, err)
}
