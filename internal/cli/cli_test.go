package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

type harness struct {
	t    *testing.T
	dir  string
	base []string
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	for _, name := range []string{"TADA_STORAGE", "TADA_PATH", "TADA_DSN", "TADA_KEY", "TADA_LOG_LEVEL", "TADA_THEME"} {
		t.Setenv(name, "")
	}
	ui.SetColorForcing(false, true)
	t.Cleanup(func() { ui.SetColorForcing(false, false) })

	dir := t.TempDir()
	return &harness{
		t:   t,
		dir: dir,
		base: []string{
			"--config", filepath.Join(dir, "absent.yaml"),
			"--storage", backend,
			"--path", dir,
			"--theme", "classic",
		},
	}
}

func (h *harness) run(args ...string) (code int, stdout, stderr string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(append(append([]string{}, h.base...), args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	code, out, errOut := h.run(args...)
	require.Equal(h.t, 0, code, "tada %v: %s", args, errOut)
	return out
}

func TestCLI_Lifecycle(t *testing.T) {
	h := newHarness(t, config.BackendFile)

	assert.Contains(t, h.mustRun("add", "buy", "milk"), "added")
	h.mustRun("add", "walk dog")

	out := h.mustRun("ls")
	assert.Contains(t, out, " 1. ☐ walk dog")
	assert.Contains(t, out, " 2. ☐ buy milk")

	assert.Contains(t, h.mustRun("done", "2"), "toggled")
	assert.Contains(t, h.mustRun("ls"), " 2. ☑ buy milk")

	assert.Contains(t, h.mustRun("edit", "1", "walk", "the", "dog"), "updated")
	assert.Contains(t, h.mustRun("ls"), " 1. ☐ walk the dog")

	assert.Contains(t, h.mustRun("clear"), "cleared completed")
	out = h.mustRun("ls")
	assert.NotContains(t, out, "buy milk")
	assert.Contains(t, out, "Total 1")

	h.mustRun("rm", "1")
	assert.Contains(t, h.mustRun("ls"), "no items")

	record := filepath.Join(h.dir, config.DefaultKey+".json")
	b, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestCLI_ClearAllDeletesRecord(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	h.mustRun("add", "x")

	record := filepath.Join(h.dir, config.DefaultKey+".json")
	_, err := os.Stat(record)
	require.NoError(t, err)

	h.mustRun("clear", "--all")
	_, err = os.Stat(record)
	assert.True(t, os.IsNotExist(err), "record should be removed, got %v", err)
	assert.Contains(t, h.mustRun("ls"), "no items")
}

func TestCLI_SQLite(t *testing.T) {
	h := newHarness(t, config.BackendSQLite)
	h.mustRun("add", "stored in sqlite")
	assert.Contains(t, h.mustRun("ls"), "stored in sqlite")

	_, err := os.Stat(filepath.Join(h.dir, "tada.db"))
	assert.NoError(t, err)
}

func TestCLI_GroupedList(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	h.mustRun("add", "a")
	h.mustRun("add", "b")
	h.mustRun("done", "1")

	out := h.mustRun("ls", "--group")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, " 2. ☐ a")
	assert.Contains(t, out, " 1. ☑ b")
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	h.mustRun("add", "only")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"index out of range", []string{"done", "5"}, exitUsage, "index out of range"},
		{"unknown ref", []string{"rm", "nope"}, exitUsage, "todo not found"},
		{"blank add", []string{"add", "  "}, exitUsage, "empty text"},
		{"blank edit", []string{"edit", "1", " "}, exitUsage, "empty text"},
		{"missing args", []string{"add"}, exitUsage, "requires at least 1 arg"},
		{"unknown command", []string{"frobnicate"}, exitUsage, "unknown command"},
		{"unknown backend", []string{"ls", "--storage", "redis"}, exitUsage, "unknown backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := h.run(tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}

	_, _, errOut := h.run("done", "5")
	assert.Contains(t, errOut, "Hint: run `tada ls`")
	assert.Contains(t, h.mustRun("ls"), "only", "failed commands leave the list alone")
}

func TestCLI_MalformedRecordStartsEmpty(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	record := filepath.Join(h.dir, config.DefaultKey+".json")
	require.NoError(t, os.WriteFile(record, []byte("{not json"), 0o644))

	assert.Contains(t, h.mustRun("ls"), "no items")
	h.mustRun("add", "fresh start")
	assert.Contains(t, h.mustRun("ls"), "fresh start")
}

func TestCLI_FlagsOverrideConfigFile(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	cfgPath := filepath.Join(h.dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  backend: mysql\n"), 0o644))

	run := func(args ...string) (int, string) {
		var out, errOut bytes.Buffer
		code := Execute(append([]string{"--config", cfgPath}, args...), &out, &errOut)
		return code, errOut.String()
	}

	code, errOut := run("ls")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "requires a dsn")

	code, errOut = run("--storage", "memory", "ls")
	assert.Equal(t, exitOK, code, errOut)

	code, errOut = run("--storage", "MEMORY", "ls")
	assert.Equal(t, exitOK, code, errOut)
}
