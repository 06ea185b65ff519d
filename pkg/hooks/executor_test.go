package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func preOnly(hooks ...Hook) *Config {
	return &Config{Hooks: HooksByPhase{PreExport: hooks}}
}

func postOnly(hooks ...Hook) *Config {
	return &Config{Hooks: HooksByPhase{PostExport: hooks}}
}

func guideContext() ExportContext {
	return ExportContext{
		ExportPath:    "/tmp/guide.md",
		ExportFormat:  "markdown",
		ScenarioCount: 4,
		CatalogHash:   "abc123def456",
		Timestamp:     time.Now(),
	}
}

func TestExecutorRunSimpleHook(t *testing.T) {
	e := NewExecutor(preOnly(Hook{Name: "echo", Command: "echo hello", Timeout: 5 * time.Second, OnError: OnErrorFail}), guideContext())
	if err := e.RunPreExport(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	res := e.Results()
	if len(res) != 1 || !res[0].Success {
		t.Fatalf("unexpected results %+v", res)
	}
	if res[0].Stdout != "hello" {
		t.Errorf("stdout = %q, want hello", res[0].Stdout)
	}
	if res[0].Phase != PreExport {
		t.Errorf("phase = %s", res[0].Phase)
	}
}

func TestExecutorExportEnvironment(t *testing.T) {
	e := NewExecutor(preOnly(Hook{
		Name:    "env",
		Command: `echo "$MMA_EXPORT_PATH $MMA_EXPORT_FORMAT $MMA_SCENARIO_COUNT $MMA_CATALOG_HASH"`,
		Timeout: 5 * time.Second,
		OnError: OnErrorFail,
	}), guideContext())
	if err := e.RunPreExport(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Results()[0].Stdout, "/tmp/guide.md markdown 4 abc123def456"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestExecutorCustomEnvExpansion(t *testing.T) {
	t.Setenv("HANDOUT_ROOT", "/srv/handouts")
	e := NewExecutor(preOnly(Hook{
		Name:    "expand",
		Command: "echo $DEST",
		Timeout: 5 * time.Second,
		OnError: OnErrorFail,
		Env:     map[string]string{"DEST": "${HANDOUT_ROOT}/medicare"},
	}), guideContext())
	if err := e.RunPreExport(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := e.Results()[0].Stdout; got != "/srv/handouts/medicare" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunPreExportStopsOnFail(t *testing.T) {
	e := NewExecutor(preOnly(
		Hook{Name: "fail-fast", Command: "exit 1", Timeout: time.Second, OnError: OnErrorFail},
		Hook{Name: "never", Command: "echo nope", Timeout: time.Second, OnError: OnErrorFail},
	), ExportContext{})
	err := e.RunPreExport(context.Background())
	if err == nil || !strings.Contains(err.Error(), "fail-fast") {
		t.Fatalf("expected failure naming the hook, got %v", err)
	}
	if len(e.Results()) != 1 {
		t.Fatalf("expected only the first hook to run, got %d", len(e.Results()))
	}
}

func TestRunPreExportContinue(t *testing.T) {
	e := NewExecutor(preOnly(
		Hook{Name: "soft", Command: "exit 3", Timeout: time.Second, OnError: OnErrorContinue},
		Hook{Name: "next", Command: "echo ran", Timeout: time.Second, OnError: OnErrorFail},
	), ExportContext{})
	if err := e.RunPreExport(context.Background()); err != nil {
		t.Fatalf("continue hook should not stop the export: %v", err)
	}
	if res := e.Results(); len(res) != 2 || res[0].Success || res[1].Stdout != "ran" {
		t.Fatalf("unexpected results %+v", res)
	}
}

func TestRunPostExportRunsAll(t *testing.T) {
	e := NewExecutor(postOnly(
		Hook{Name: "fail", Command: "exit 1", Timeout: time.Second, OnError: OnErrorFail},
		Hook{Name: "after", Command: "echo ok", Timeout: time.Second, OnError: OnErrorContinue},
		Hook{Name: "soft", Command: "exit 2", Timeout: time.Second, OnError: OnErrorContinue},
	), ExportContext{})
	err := e.RunPostExport(context.Background())
	if err == nil {
		t.Fatal("expected error for post-export hook with on_error=fail")
	}
	if strings.Contains(err.Error(), "soft") {
		t.Errorf("continue hook should not be reported: %v", err)
	}
	res := e.Results()
	if len(res) != 3 {
		t.Fatalf("expected every hook to run, got %d", len(res))
	}
	if res[1].Stdout != "ok" {
		t.Errorf("second hook stdout = %q", res[1].Stdout)
	}
}

func TestExecutorHookTimeout(t *testing.T) {
	e := NewExecutor(preOnly(Hook{Name: "slow", Command: "sleep 10", Timeout: 100 * time.Millisecond, OnError: OnErrorFail}), ExportContext{})
	start := time.Now()
	if err := e.RunPreExport(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout did not stop the hook")
	}
	r := e.Results()[0]
	if r.Success || !strings.Contains(r.Error.Error(), "timed out") {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.Duration < 100*time.Millisecond {
		t.Errorf("duration %v shorter than timeout", r.Duration)
	}
}

func TestExecutorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExecutor(preOnly(Hook{Name: "x", Command: "echo hi", Timeout: time.Second, OnError: OnErrorFail}), ExportContext{})
	if err := e.RunPreExport(ctx); err == nil {
		t.Fatal("expected error when the context is already canceled")
	}
}

func TestExecutorCommandNotFound(t *testing.T) {
	e := NewExecutor(preOnly(Hook{Name: "missing", Command: "definitely-not-a-real-command-xyz", Timeout: time.Second, OnError: OnErrorFail}), ExportContext{})
	if err := e.RunPreExport(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if r := e.Results()[0]; r.Success || r.Stderr == "" {
		t.Fatalf("expected a failed result with shell stderr, got %+v", r)
	}
}

func TestExecutorPermissionDenied(t *testing.T) {
	script := filepath.Join(t.TempDir(), "publish.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := NewExecutor(preOnly(Hook{Name: "perm", Command: script, Timeout: time.Second, OnError: OnErrorFail}), ExportContext{})
	if err := e.RunPreExport(context.Background()); err == nil {
		t.Fatal("expected permission error")
	}
}

func TestExecutorSummary(t *testing.T) {
	e := NewExecutor(&Config{Hooks: HooksByPhase{
		PreExport:  []Hook{{Name: "ok", Command: "echo ok", Timeout: time.Second, OnError: OnErrorContinue}},
		PostExport: []Hook{{Name: "bad", Command: "exit 1", Timeout: time.Second, OnError: OnErrorContinue}},
	}}, ExportContext{})
	if e.Summary() != "" {
		t.Fatal("summary should be empty before any run")
	}
	_ = e.RunPreExport(context.Background())
	_ = e.RunPostExport(context.Background())

	s := e.Summary()
	for _, want := range []string{"1 succeeded", "1 failed", "✓ ok [pre-export]", "✗ bad [post-export]"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestExecutorLargeStderrTruncatedInSummary(t *testing.T) {
	e := NewExecutor(postOnly(Hook{
		Name:    "noisy",
		Command: "printf '%0300d' 0 1>&2; exit 1",
		Timeout: time.Second,
		OnError: OnErrorContinue,
	}), ExportContext{})
	_ = e.RunPostExport(context.Background())

	s := e.Summary()
	if !strings.Contains(s, "stderr:") || !strings.Contains(s, "...") {
		t.Fatalf("expected truncated stderr line:\n%s", s)
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, "stderr:") && len(line) > 230 {
			t.Fatalf("stderr line not truncated, length %d", len(line))
		}
	}
}

func TestRunHooks(t *testing.T) {
	dir := t.TempDir()
	if e, err := RunHooks(dir, ExportContext{}, false); err != nil || e != nil {
		t.Fatalf("missing config: e=%v err=%v", e, err)
	}

	writeHooksFile(t, dir, "hooks:\n  pre-export:\n    - name: hello\n      command: echo hi\n")
	if e, err := RunHooks(dir, ExportContext{}, true); err != nil || e != nil {
		t.Fatalf("noHooks should short-circuit: e=%v err=%v", e, err)
	}

	e, err := RunHooks(dir, guideContext(), false)
	if err != nil || e == nil {
		t.Fatalf("expected executor, got e=%v err=%v", e, err)
	}
	if len(e.config.Hooks.PreExport) != 1 || len(e.Results()) != 0 {
		t.Fatalf("executor not initialized from the hooks file")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghijklmnopqrstuvwxyz", 8); got != "abcde..." {
		t.Errorf("got %q", got)
	}
}
