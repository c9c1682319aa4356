// Package shell runs external tools for the pipeline.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/zerr"

	"claudeport/internal/core/ports"
)

// Runner implements ports.CommandRunner using os/exec and a PTY.
// Tools run under a PTY so their output stays line-oriented and unbuffered;
// every line is forwarded to the structural logger.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes cmd and blocks until it exits. Output is streamed to the
// logger line by line.
func (r *Runner) Run(ctx context.Context, cmd ports.Command) error {
	lw := &logWriter{logger: r.logger}
	defer func() { _ = lw.Close() }()

	if err := r.run(ctx, cmd, lw); err != nil {
		return zerr.With(zerr.Wrap(err, "command failed"), "command", cmd.Name)
	}
	return nil
}

// Output executes cmd and returns its combined output as a trimmed string.
func (r *Runner) Output(ctx context.Context, cmd ports.Command) (string, error) {
	var buf bytes.Buffer
	if err := r.run(ctx, cmd, &buf); err != nil {
		return "", zerr.With(zerr.Wrap(err, "command failed"), "command", cmd.Name)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (r *Runner) run(ctx context.Context, cmd ports.Command, sink io.Writer) error {
	//nolint:gosec // tool names and arguments are pipeline-controlled
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	c.Env = resolveEnvironment(os.Environ(), cmd.Env)

	ptmx, err := pty.Start(c)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// The PTY merges stdout and stderr into one stream.
		_, _ = io.Copy(sink, ptmx)
	}()

	waitErr := c.Wait()
	<-ioDone

	if waitErr != nil {
		exitCode := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(waitErr, "exit_code", exitCode)
	}
	return nil
}

// logWriter forwards complete output lines to the logger.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r. Remove it.
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}

// allowListedEnvVars are the system variables tool invocations inherit.
// HOME and PATH matter for npm and the packaging tools; the rest keeps
// basic terminal behavior intact.
var allowListedEnvVars = map[string]struct{}{
	"HOME":            {},
	"TERM":            {},
	"USER":            {},
	"PATH":            {},
	"XDG_DATA_DIRS":   {},
	"XDG_CACHE_HOME":  {},
	"XDG_CONFIG_HOME": {},
}

// resolveEnvironment layers command variables over the allow-listed system
// environment. A PATH entry in extra replaces the inherited one.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for _, entry := range extra {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}
