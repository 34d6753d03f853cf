// Package toolexec runs host-installed command line tools (Blender, gmsh,
// OpenSCAD) to completion and turns failures into descriptive errors.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrToolNotFound is wrapped by every "tool is not installed" error
var ErrToolNotFound = errors.New("external tool not found")

// Error describes a tool that ran but failed
type Error struct {
	Tool   string
	Err    error
	Stdout string
	Stderr string
}

func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("%s failed: %v", e.Tool, e.Err))
	if e.Stderr != "" {
		msg.WriteString("\nstderr: ")
		msg.WriteString(e.Stderr)
	}
	if e.Stdout != "" {
		msg.WriteString("\nstdout: ")
		msg.WriteString(e.Stdout)
	}
	return msg.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Command is a prepared tool invocation
type Command struct {
	Path string
	Args []string
	Dir  string
}

// Run executes the command and blocks until it exits. Output is captured and
// attached to the returned *Error when the exit status is nonzero.
func Run(ctx context.Context, logger *zap.Logger, c Command) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	logger.Debug("running external tool", zap.String("tool", c.Path), zap.Strings("args", summarizeArgs(c.Args)))

	err := cmd.Run()

	logger.Debug("external tool finished",
		zap.String("tool", c.Path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &Error{
			Tool:   c.Path,
			Err:    err,
			Stdout: strings.TrimSpace(stdout.String()),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return nil
}

// Lookup resolves a tool binary. A configured path wins and must exist;
// otherwise name is searched on $PATH. The returned error wraps
// ErrToolNotFound and carries the install hint.
func Lookup(name, configured, hint string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("%w: %s not found at configured path %s: %v", ErrToolNotFound, name, configured, err)
		}
		return configured, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH. %s", ErrToolNotFound, name, hint)
	}
	return path, nil
}

// summarizeArgs shortens inline scripts so debug logs stay readable
func summarizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if len(a) > 120 {
			cut := 117
			for cut > 0 && !utf8.RuneStart(a[cut]) {
				cut--
			}
			a = a[:cut] + "..."
		}
		out[i] = a
	}
	return out
}
