// Package executor provides command execution functionality.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// Output runs the command and returns its standard output.
// Standard error is captured separately and attached to the returned
// *domain.CommandError when the command fails.
func (c *Client) Output(ctx context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted UseCase code
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	if err := execCmd.Run(); err != nil {
		cmdErr := &domain.CommandError{
			Err:      err,
			Program:  cmd.Program,
			Args:     cmd.Args,
			Stderr:   stderr.String(),
			ExitCode: -1,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), cmdErr
	}
	return stdout.Bytes(), nil
}
