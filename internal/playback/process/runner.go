package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner is the interface for starting player commands.
type CommandRunner interface {
	// Start launches name with args. The returned wait blocks until the
	// command exits; cancelling ctx kills it.
	Start(ctx context.Context, name string, args []string) (wait func() error, err error)
}

// ExecCommandRunner uses os/exec.
type ExecCommandRunner struct{}

// Start starts a command.
func (ExecCommandRunner) Start(ctx context.Context, name string, args []string) (func() error, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	wait := func() error {
		err := cmd.Wait()
		if err != nil {
			if s := strings.TrimSpace(errBuf.String()); s != "" {
				return fmt.Errorf("%w: %s", err, s)
			}
		}
		return err
	}

	return wait, nil
}
