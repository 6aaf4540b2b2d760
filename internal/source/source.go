// Package source is the boundary to the external log producer: it turns a
// device, a command, or stdin into a byte stream of raw log lines and
// answers liveness probes about it.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/adeane/devinsight/internal/domain"
)

// Source yields the raw line stream. Open is called once at startup;
// failure there is fatal (the process reports once and exits non-zero).
type Source interface {
	// Open starts the producer and returns its line stream.
	Open(ctx context.Context) (io.Reader, error)
	// Alive reports the producer's current state; called periodically by
	// the UI as a liveness probe.
	Alive() domain.ConnectionStatus
	// Close terminates the producer. Safe to call after a failed Open.
	Close() error
}

// ADB streams `adb logcat`, optionally pinned to one device serial.
type ADB struct {
	Device string
	cmd    *exec.Cmd
}

// Open spawns the logcat subprocess and returns its stdout
func (a *ADB) Open(ctx context.Context) (io.Reader, error) {
	args := []string{}
	if a.Device != "" {
		args = append(args, "-s", a.Device)
	}
	args = append(args, "logcat")

	cmd := exec.CommandContext(ctx, "adb", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting adb logcat: %v", domain.ErrSourceUnavailable, err)
	}
	a.cmd = cmd
	return stdout, nil
}

// Alive shells out to `adb get-state`: success means a device is attached,
// a clean failure means disconnected, anything else is an adb error.
func (a *ADB) Alive() domain.ConnectionStatus {
	args := []string{}
	if a.Device != "" {
		args = append(args, "-s", a.Device)
	}
	args = append(args, "get-state")

	out, err := exec.Command("adb", args...).Output()
	switch {
	case err == nil && len(out) > 0:
		return domain.ConnectionConnected
	case err != nil:
		if _, ok := err.(*exec.ExitError); ok {
			return domain.ConnectionDisconnected
		}
		return domain.ConnectionError
	default:
		return domain.ConnectionDisconnected
	}
}

// Close kills the logcat subprocess and reaps it
func (a *ADB) Close() error {
	if a.cmd == nil || a.cmd.Process == nil {
		return nil
	}
	_ = a.cmd.Process.Kill()
	return a.cmd.Wait()
}

// Command streams the stdout of an arbitrary shell command.
type Command struct {
	Line string
	cmd  *exec.Cmd
}

// Open starts the command through the shell and returns its stdout
func (c *Command) Open(ctx context.Context) (io.Reader, error) {
	if c.Line == "" {
		return nil, fmt.Errorf("%w: empty source command", domain.ErrSourceUnavailable)
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", c.Line)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %q: %v", domain.ErrSourceUnavailable, c.Line, err)
	}
	c.cmd = cmd
	return stdout, nil
}

// Alive reports whether the subprocess is still running
func (c *Command) Alive() domain.ConnectionStatus {
	if c.cmd == nil || c.cmd.ProcessState != nil {
		return domain.ConnectionDisconnected
	}
	return domain.ConnectionConnected
}

// Close kills the subprocess and reaps it
func (c *Command) Close() error {
	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	_ = c.cmd.Process.Kill()
	return c.cmd.Wait()
}

// Stdin streams the process's own standard input; useful for piping a
// capture file or another tool into the dashboard.
type Stdin struct{}

// Open returns os.Stdin
func (Stdin) Open(ctx context.Context) (io.Reader, error) {
	return os.Stdin, nil
}

// Alive always reports connected; EOF on the pipe ends ingestion instead
func (Stdin) Alive() domain.ConnectionStatus {
	return domain.ConnectionConnected
}

// Close is a no-op; the process does not own its stdin
func (Stdin) Close() error {
	return nil
}
