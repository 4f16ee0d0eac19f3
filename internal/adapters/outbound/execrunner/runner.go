// Package execrunner implements domain.CommandRunner on os/exec with the
// two mandatory subprocess bounds: a wall-clock timeout and a combined
// output ceiling. Exit codes are captured, never interpreted.
package execrunner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/guardrails/guardrails/internal/domain"
)

// Runner executes external tools with enforced bounds.
type Runner struct {
	timeout   time.Duration
	maxOutput int64
}

func New(timeout time.Duration, maxOutput int64) *Runner {
	return &Runner{timeout: timeout, maxOutput: maxOutput}
}

var errOutputLimit = errors.New("output limit exceeded")

// Run executes argv in dir, capturing stdout and stderr. A non-zero exit
// code is returned in the output, not as an error; an error means the tool
// could not run to completion (failed start, timeout, output ceiling).
func (r *Runner) Run(ctx context.Context, dir string, argv []string) (*domain.ToolOutput, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	budget := &outputBudget{remaining: r.maxOutput}
	stdout := &cappedBuffer{budget: budget}
	stderr := &cappedBuffer{budget: budget}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	out := &domain.ToolOutput{Stdout: stdout.String(), Stderr: stderr.String()}

	// A breached ceiling wins over whatever exit the tool managed: the broken
	// pipe usually kills it with a non-zero status, and exec surfaces that as
	// an ExitError instead of the write rejection.
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: %s timed out after %s", domain.ErrToolInvocation, argv[0], r.timeout)
	case budget.breached || errors.Is(err, errOutputLimit):
		return nil, fmt.Errorf("%w: %s exceeded output limit of %d bytes", domain.ErrToolInvocation, argv[0], r.maxOutput)
	case err == nil:
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Issues found, not an invocation failure.
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return nil, fmt.Errorf("%w: running %s: %v", domain.ErrToolInvocation, argv[0], err)
}

// outputBudget is the byte allowance shared by both streams; exec copies
// them concurrently. breached records an actual write rejection, which is
// distinct from output that fits the budget exactly.
type outputBudget struct {
	mu        sync.Mutex
	remaining int64
	breached  bool
}

// cappedBuffer accumulates writes until the shared byte budget runs out,
// which kills the subprocess through the broken pipe.
type cappedBuffer struct {
	budget *outputBudget
	data   []byte
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.budget.mu.Lock()
	defer b.budget.mu.Unlock()
	if b.budget.remaining <= 0 {
		b.budget.breached = true
		return 0, errOutputLimit
	}
	n := int64(len(p))
	if n > b.budget.remaining {
		b.data = append(b.data, p[:b.budget.remaining]...)
		b.budget.remaining = 0
		b.budget.breached = true
		return 0, errOutputLimit
	}
	b.budget.remaining -= n
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return string(b.data)
}
