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

	"github.com/vanderheijden86/medadventure/pkg/debug"
)

// HookResult records one hook run.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Error    error
	Duration time.Duration
}

// Executor runs the configured hooks for a single export.
type Executor struct {
	config  *Config
	context ExportContext
	results []HookResult
}

// NewExecutor creates an executor for one export.
func NewExecutor(config *Config, ectx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, context: ectx}
}

// RunPreExport runs pre-export hooks in order. The first hook with
// on_error=fail that fails stops the run and its error is returned.
func (e *Executor) RunPreExport(ctx context.Context) error {
	for _, hook := range e.config.Hooks.PreExport {
		r := e.runHook(ctx, hook, PreExport)
		e.results = append(e.results, r)
		if !r.Success && hook.OnError != OnErrorContinue {
			return fmt.Errorf("pre-export hook %q failed: %w", hook.Name, r.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook. The export already exists, so
// a failure never skips later hooks; failures of on_error=fail hooks are
// joined into the returned error.
func (e *Executor) RunPostExport(ctx context.Context) error {
	var errs []error
	for _, hook := range e.config.Hooks.PostExport {
		r := e.runHook(ctx, hook, PostExport)
		e.results = append(e.results, r)
		if !r.Success && hook.OnError == OnErrorFail {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", hook.Name, r.Error))
		}
	}
	return errors.Join(errs...)
}

func (e *Executor) runHook(ctx context.Context, hook Hook, phase HookPhase) HookResult {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", hook.Command)
	cmd.Env = append(os.Environ(), e.context.ToEnv()...)
	for k, v := range hook.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	// Without this a child that keeps the pipes open outlives the timeout.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	debug.Log("hooks: %s %q", phase, hook.Name)
	start := time.Now()
	err := cmd.Run()
	r := HookResult{
		Hook:     hook,
		Phase:    phase,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		r.Error = fmt.Errorf("timed out after %v", timeout)
	case err != nil:
		r.Error = err
	default:
		r.Success = true
	}
	debug.Log("hooks: %q done in %v ok=%v", hook.Name, r.Duration, r.Success)
	return r
}

// Results returns every hook run so far.
func (e *Executor) Results() []HookResult {
	return e.results
}

// Summary describes the runs for the terminal. Empty when nothing ran.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	var b strings.Builder
	for _, r := range e.results {
		if r.Success {
			ok++
			fmt.Fprintf(&b, "  ✓ %s [%s] %v\n", r.Hook.Name, r.Phase, r.Duration.Round(time.Millisecond))
			continue
		}
		failed++
		fmt.Fprintf(&b, "  ✗ %s [%s]: %v\n", r.Hook.Name, r.Phase, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&b, "    stderr: %s\n", truncate(r.Stderr, 200))
		}
	}
	return fmt.Sprintf("Hooks: %d succeeded, %d failed\n", ok, failed) + b.String()
}

// RunHooks loads the hooks for projectDir. It returns a nil executor when
// hooks are disabled or none are configured.
func RunHooks(projectDir string, ectx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ectx), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
