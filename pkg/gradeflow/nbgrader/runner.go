// Package nbgrader is the boundary to the external notebook grading tool.
// Every invocation returns a typed Result instead of raw console text.
package nbgrader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the grading tool's executable name.
const DefaultBinary = "nbgrader"

// ErrToolNotFound indicates the grading tool is not installed or not on PATH.
var ErrToolNotFound = errors.New("grading tool not found")

// FailureMarkers are output substrings the tool prints when an operation fails.
var FailureMarkers = []string{"VALIDATION FAILED", "ERROR"}

// Result is the outcome of one tool invocation.
type Result struct {
	// Command is the full argument vector, binary first.
	Command []string `json:"command"`
	// Dir is the working directory the command ran in.
	Dir string `json:"dir"`
	// Stdout is the captured standard output.
	Stdout string `json:"stdout"`
	// Stderr is the captured standard error.
	Stderr string `json:"stderr"`
	// ExitCode is the process exit code.
	ExitCode int `json:"exit_code"`
	// Diagnostics are the output lines that carry a failure marker.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// OK reports whether the command exited cleanly without failure markers on stdout.
func (r Result) OK() bool {
	return r.ExitCode == 0 && !hasMarker(r.Stdout)
}

// ToolError reports a failed tool invocation.
type ToolError struct {
	Result Result
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Result.Command, " "), e.Result.ExitCode)
	if len(e.Result.Diagnostics) > 0 {
		msg += ": " + strings.Join(e.Result.Diagnostics, "; ")
	}
	return msg
}

// Runner executes the grading tool.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// ExecRunner runs the tool as a child process.
type ExecRunner struct {
	// Binary is the executable name or path.
	Binary string
}

// Run executes the tool synchronously in dir. A non-zero exit is reported
// through Result, not as an error; err is set only when the process could not run.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{Command: append([]string{bin}, args...), Dir: dir}
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		return res, fmt.Errorf("%w: %s", ErrToolNotFound, bin)
	default:
		return res, err
	}
	res.Diagnostics = Diagnose(res.Stdout, res.Stderr)
	return res, nil
}

// Diagnose returns every output line containing a failure marker.
func Diagnose(outputs ...string) []string {
	var lines []string
	for _, out := range outputs {
		sc := bufio.NewScanner(strings.NewReader(out))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if hasMarker(line) {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func hasMarker(s string) bool {
	for _, m := range FailureMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
