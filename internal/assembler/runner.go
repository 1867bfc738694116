package assembler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner executes an external process. The assembler's
// delay/sum/mix arithmetic stays testable by swapping the runner.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands through os/exec, capturing stderr
type ExecRunner struct{}

// Run executes the command and returns a descriptive error on any
// non-zero exit
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s failed: %w (stderr: %s)", name, err, stderr.String())
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
