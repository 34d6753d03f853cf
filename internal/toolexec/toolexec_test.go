package toolexec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := Lookup("sh", "", "")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestRunSuccess(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()

	err := Run(context.Background(), zaptest.NewLogger(t), Command{
		Path: sh,
		Args: []string{"-c", "echo hi > out.txt"},
		Dir:  dir,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))
}

func TestRunFailureCarriesOutput(t *testing.T) {
	sh := requireShell(t)

	err := Run(context.Background(), nil, Command{
		Path: sh,
		Args: []string{"-c", "echo progress; echo boom >&2; exit 3"},
	})
	require.Error(t, err)

	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "boom", toolErr.Stderr)
	assert.Equal(t, "progress", toolErr.Stdout)
	assert.Contains(t, err.Error(), "stderr: boom")
	assert.Contains(t, err.Error(), "stdout: progress")
}

func TestRunCanceled(t *testing.T) {
	sh := requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, nil, Command{Path: sh, Args: []string{"-c", "sleep 5"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookupConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	got, err := Lookup("tool", path, "")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = Lookup("tool", path+"-missing", "")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestLookupMissingFromPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Lookup("definitely-not-installed", "", "Install it from example.org.")
	require.ErrorIs(t, err, ErrToolNotFound)
	assert.Contains(t, err.Error(), "Install it from example.org.")
}

func TestSummarizeArgsKeepsRunesWhole(t *testing.T) {
	script := strings.Repeat("a", 116) + strings.Repeat("é", 20)
	short := "--background"

	got := summarizeArgs([]string{short, script})

	assert.Equal(t, short, got[0])
	assert.True(t, utf8.ValidString(got[1]))
	assert.LessOrEqual(t, len(got[1]), 120)
	assert.Equal(t, strings.Repeat("a", 116)+"...", got[1])
}
