package analyzer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluttervet/fluttervet/internal/adapters/outbound/analyzer"
)

func TestExecRunner_CapturesStdoutAndExitCode(t *testing.T) {
	runner := analyzer.NewRunner()

	out, code, err := runner.Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello")

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello", strings.TrimSpace(string(out)))
}

func TestExecRunner_NonzeroExitIsNotAnError(t *testing.T) {
	runner := analyzer.NewRunner()

	out, code, err := runner.Run(context.Background(), t.TempDir(), "sh", "-c", "echo partial; exit 3")

	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "partial", strings.TrimSpace(string(out)))
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	runner := analyzer.NewRunner()

	_, code, err := runner.Run(context.Background(), t.TempDir(), "definitely-not-a-real-binary-xyz")

	require.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestExecRunner_LookPath(t *testing.T) {
	runner := analyzer.NewRunner()

	path, err := runner.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = runner.LookPath("definitely-not-a-real-binary-xyz")
	assert.Error(t, err)
}
