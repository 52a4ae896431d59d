package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	r := NewExecRunner()
	if _, err := r.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	tests := []struct {
		name       string
		script     string
		wantStdout string
		wantStderr string
		wantCode   int
	}{
		{name: "success", script: "echo hello", wantStdout: "hello\n"},
		{name: "non-zero exit is not an error", script: "echo oops >&2; exit 3", wantStderr: "oops\n", wantCode: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Run(context.Background(), "", "sh", "-c", tt.script)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStdout, res.Stdout)
			assert.Equal(t, tt.wantStderr, res.Stderr)
			assert.Equal(t, tt.wantCode, res.ExitCode)
		})
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), "", "definitely-not-a-real-binary-4821")
	require.Error(t, err)
}

func TestResult_Combined(t *testing.T) {
	assert.Equal(t, "", (*Result)(nil).Combined())
	assert.Equal(t, "out", (&Result{Stdout: "out"}).Combined())
	assert.Equal(t, "err", (&Result{Stderr: "err"}).Combined())
	assert.Equal(t, "out\nerr", (&Result{Stdout: "out", Stderr: "err"}).Combined())
}

func TestFake(t *testing.T) {
	f := NewFake().
		OnStdout("git diff a..b -- x", "diff").
		On("cargo *", &Result{ExitCode: 1}, nil).
		Provide("gh")

	res, err := f.Run(context.Background(), "", "git", "diff", "a..b", "--", "x")
	require.NoError(t, err)
	assert.Equal(t, "diff", res.Stdout)

	res, err = f.Run(context.Background(), "/repo", "cargo", "semver-checks")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	_, err = f.Run(context.Background(), "", "rm", "-rf", "/")
	assert.Error(t, err)

	_, err = f.LookPath("gh")
	assert.NoError(t, err)
	_, err = f.LookPath("cargo")
	assert.Error(t, err)

	assert.True(t, f.Called("cargo"))
	assert.Len(t, f.Calls(), 3)

	dir, ok := f.DirOf("cargo")
	assert.True(t, ok)
	assert.Equal(t, "/repo", dir)
	_, ok = f.DirOf("gh")
	assert.False(t, ok)
}
