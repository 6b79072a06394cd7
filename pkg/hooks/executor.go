package hooks

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

	"github.com/vanderheijden86/sentiboard/pkg/debug"
)

// maxSummaryStderr caps the stderr excerpt per failed hook in Summary.
const maxSummaryStderr = 200

// Result is the outcome of one hook run.
type Result struct {
	Hook     string
	Phase    HookPhase
	Success  bool
	Error    error
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs the hooks of one export.
type Executor struct {
	config  *Config
	ctx     ExportContext
	results []Result
}

// NewExecutor creates an executor for config and export context.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, ctx: ctx}
}

// SetFiles records the written files for the post-export hooks.
func (e *Executor) SetFiles(files []string) {
	e.ctx.Files = append([]string(nil), files...)
}

// RunPreExport runs pre-export hooks in order and stops at the first
// failing hook whose policy is "fail".
func (e *Executor) RunPreExport() error {
	for _, h := range e.config.Hooks.PreExport {
		r := e.run(h, PreExport)
		if !r.Success && h.OnError != OnErrorContinue {
			return fmt.Errorf("pre-export hook %q failed: %w", h.Name, r.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook and returns the failures of
// hooks whose policy is "fail".
func (e *Executor) RunPostExport() error {
	var errs []error
	for _, h := range e.config.Hooks.PostExport {
		r := e.run(h, PostExport)
		if !r.Success && h.OnError == OnErrorFail {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", h.Name, r.Error))
		}
	}
	return errors.Join(errs...)
}

func (e *Executor) run(h Hook, phase HookPhase) Result {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.Env = append(os.Environ(), e.ctx.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	// Background children holding the pipes must not block Wait past the timeout.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r := Result{
		Hook:     h.Name,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", timeout, err)
		}
		r.Error = err
		debug.Warn("hook %s (%s) failed after %s: %v", h.Name, phase, r.Duration, err)
	} else {
		debug.Log("hook %s (%s) ok in %s", h.Name, phase, r.Duration)
	}
	e.results = append(e.results, r)
	return r
}

// Results returns the results in run order.
func (e *Executor) Results() []Result {
	return append([]Result(nil), e.results...)
}

// Summary describes the runs in a few lines for the terminal.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	var details strings.Builder
	for _, r := range e.results {
		if r.Success {
			ok++
			continue
		}
		failed++
		fmt.Fprintf(&details, "\n  %s (%s): %v", r.Hook, r.Phase, r.Error)
		if r.Stderr != "" {
			stderr := r.Stderr
			if len(stderr) > maxSummaryStderr {
				cut := maxSummaryStderr
				for cut > 0 && !utf8.RuneStart(stderr[cut]) {
					cut--
				}
				stderr = stderr[:cut] + "..."
			}
			fmt.Fprintf(&details, "\n    %s", strings.ReplaceAll(stderr, "\n", "\n    "))
		}
	}
	return fmt.Sprintf("Hooks: %d succeeded, %d failed", ok, failed) + details.String()
}

// RunHooks loads the hook configuration for projectDir. It returns a nil
// executor when noHooks is set or nothing is configured.
func RunHooks(projectDir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	l := NewLoader(WithProjectDir(projectDir))
	if err := l.Load(); err != nil {
		return nil, err
	}
	for _, w := range l.Warnings() {
		debug.Warn("hooks: %s", w)
	}
	if !l.HasHooks() {
		return nil, nil
	}
	debug.Log("hooks: loaded from %s", l.Path())
	return NewExecutor(l.Config(), ctx), nil
}
