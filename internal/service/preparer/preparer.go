package preparer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"vocstage/internal/logger"
)

var errNoCommand = errors.New("preparation command is not set")

// Run invokes the external preparation routine in workDir with no extra
// arguments. The routine is an opaque collaborator: it reads the staged
// dataset directories from its working directory, writes its own artifacts,
// and signals failure via a non-zero exit status. Its stdout and stderr are
// passed through so its diagnostics reach the user unchanged.
func Run(ctx context.Context, workDir string, command []string) error {
	if len(command) == 0 {
		return errNoCommand
	}

	logger.InfoKV(ctx, "Running preparation command",
		"command", strings.Join(command, " "),
		"dir", workDir)

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("preparation command: %w", err)
	}

	return nil
}
