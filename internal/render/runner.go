package render

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"asciisymphony/internal/logging"
	"asciisymphony/internal/services"
)

// stderrTailLines bounds how much trailing tool output is kept for error
// messages.
const stderrTailLines = 12

var framePattern = regexp.MustCompile(`frame=\s*(\d+)`)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// Runner executes one external binary and turns its failures into wrapped,
// classifiable errors.
type Runner struct {
	binary string
	logger *slog.Logger
	exec   Executor
}

// NewRunner builds a runner for the given binary.
func NewRunner(binary string, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		binary: binary,
		logger: logger,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Binary returns the configured binary path.
func (r *Runner) Binary() string { return r.binary }

// Run executes the binary and streams its output lines to onLine. Failures
// carry the exit status and the trailing output so the user sees what the
// tool complained about.
func (r *Runner) Run(ctx context.Context, stage string, args []string, onLine func(string)) error {
	r.logger.Debug("running external tool",
		logging.String("binary", r.binary),
		logging.String("stage", stage),
		logging.Int("arg_count", len(args)))

	tail := newTailBuffer(stderrTailLines)
	err := r.exec.Run(ctx, r.binary, args, func(line string) {
		tail.add(line)
		if onLine != nil {
			onLine(line)
		}
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return services.Wrap(services.ErrTimeout, stage, r.binary, "interrupted", ctx.Err())
	}

	detail := fmt.Sprintf("%s failed", r.binary)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail = fmt.Sprintf("%s exited with code %d", r.binary, exitErr.ExitCode())
	}
	if trailing := tail.String(); trailing != "" {
		detail = detail + ": " + trailing
	}
	return services.Wrap(services.ErrExternalTool, stage, "run", detail, err)
}

// ParseFrameCount extracts the frame counter from an ffmpeg progress line.
func ParseFrameCount(line string) (int, bool) {
	match := framePattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Split(scanProgressLines)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" && onLine != nil {
				onLine(line)
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	return cmd.Wait()
}

// scanProgressLines splits on both \n and \r so ffmpeg's carriage-return
// progress updates arrive as individual lines.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// tailBuffer keeps the last n non-empty lines of tool output.
type tailBuffer struct {
	limit int
	lines []string
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, " | ")
}
