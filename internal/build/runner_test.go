package build

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"aviutl2-cli/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T) (*Runner, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell fixtures use POSIX sh")
	}
	dir := t.TempDir()
	r := NewRunner()
	r.Dir = dir
	r.Stdout = nil
	r.Stderr = nil
	return r, dir
}

func readLog(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return strings.Fields(string(data))
}

func TestRunCommands_StopsAtFirstFailure(t *testing.T) {
	r, dir := newTestRunner(t)

	err := r.RunCommands([]string{"echo one >> log.txt", "exit 3", "echo three >> log.txt"})

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "exit 3", cmdErr.Command)
	assert.Contains(t, err.Error(), "exit 3")
	assert.Equal(t, []string{"one"}, readLog(t, dir))
}

func TestRunPlan_SharedGroupRunsOnce(t *testing.T) {
	r, dir := newTestRunner(t)
	groups := map[string]*config.BuildCommand{
		"compile": config.SingleCommand("echo compile >> log.txt"),
	}
	plan, err := ResolvePlan(config.GroupRef("compile"), groups)
	require.NoError(t, err)

	require.NoError(t, r.RunPlan(plan))
	require.NoError(t, r.RunPlan(plan))
	require.NoError(t, r.RunPlan(Plan{Commands: []string{"echo inline >> log.txt"}}))
	require.NoError(t, r.RunPlan(Plan{Commands: []string{"echo inline >> log.txt"}}))

	assert.True(t, r.Executed("compile"))
	assert.Equal(t, []string{"compile", "inline", "inline"}, readLog(t, dir))
}

func TestRunPlan_FailedGroupIsNotMarked(t *testing.T) {
	r, _ := newTestRunner(t)
	plan := Plan{Commands: []string{"false"}, Group: "broken"}

	require.Error(t, r.RunPlan(plan))
	assert.False(t, r.Executed("broken"))
}

func TestRunHook(t *testing.T) {
	r, dir := newTestRunner(t)
	groups := map[string]*config.BuildCommand{
		"post": config.CommandList("echo a >> log.txt", "echo b >> log.txt"),
	}
	require.NoError(t, r.RunHook(nil, groups))
	require.NoError(t, r.RunHook(config.GroupRef("post"), groups))
	assert.Equal(t, []string{"a", "b"}, readLog(t, dir))

	require.ErrorIs(t, r.RunHook(config.GroupRef("missing"), groups), ErrGroupNotFound)
}
