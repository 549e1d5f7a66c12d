// Package subproc runs external tools with captured output and normalized
// errors for missing binaries and non-zero exits.
package subproc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrToolMissing indicates the external tool could not be located on PATH.
var ErrToolMissing = errors.New("external tool not found in PATH")

// ExitError reports a tool that ran but failed.
type ExitError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if len(stderr) > 512 {
		stderr = stderr[:512] + "..."
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, stderr)
}

// Command is an immutable builder for one external invocation.
type Command struct {
	tool string
	args []string
}

func NewCommand(tool string) Command {
	return Command{tool: tool}
}

func (c Command) Arg(arg string) Command {
	c.args = append(c.args[:len(c.args):len(c.args)], arg)
	return c
}

// ArgOpt appends arg only when it is non-empty.
func (c Command) ArgOpt(arg string) Command {
	if arg == "" {
		return c
	}
	return c.Arg(arg)
}

func (c Command) Args(args ...string) Command {
	c.args = append(c.args[:len(c.args):len(c.args)], args...)
	return c
}

// String renders the command line for logging.
func (c Command) String() string {
	return strings.Join(append([]string{c.tool}, c.args...), " ")
}

// LookPath reports whether the tool is executable, mapping absence to
// ErrToolMissing.
func LookPath(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return errors.Wrapf(ErrToolMissing, "%s", tool)
	}
	return nil
}

// Run executes the command and returns its stdout. The process is killed
// when ctx is cancelled.
func (c Command) Run(ctx context.Context) ([]byte, error) {
	if err := LookPath(c.tool); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.tool, c.args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Tool: c.tool, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, errors.Wrapf(err, "failed to run %s", c.tool)
	}

	return stdout.Bytes(), nil
}
