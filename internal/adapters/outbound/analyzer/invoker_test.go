package analyzer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluttervet/fluttervet/internal/adapters/outbound/analyzer"
	"github.com/fluttervet/fluttervet/internal/adapters/outbound/scanner"
	"github.com/fluttervet/fluttervet/internal/domain"
)

// fakeRunner scripts the analyzer process without spawning anything.
type fakeRunner struct {
	lookPathErr error
	stdout      []byte
	exitCode    int
	runErr      error
	gotArgs     []string
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.lookPathErr != nil {
		return "", f.lookPathErr
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) Run(_ context.Context, _, _ string, args ...string) ([]byte, int, error) {
	f.gotArgs = args
	return f.stdout, f.exitCode, f.runErr
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeProject lays out a minimal Dart project in a temp dir.
func writeProject(t *testing.T, withManifest bool) string {
	t.Helper()
	dir := t.TempDir()
	if withManifest {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte("name: demo\n"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "main.dart"), []byte("void main() {}\n"), 0o644))
	return dir
}

func newInvoker(runner *fakeRunner) *analyzer.Invoker {
	return analyzer.NewInvoker(runner, scanner.New(), discard())
}

func TestInvoke_CleanRun(t *testing.T) {
	dir := writeProject(t, true)
	runner := &fakeRunner{exitCode: 0}

	result, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Issues)
	assert.NotNil(t, result.Issues)
	assert.Equal(t, 1, result.FilesAnalyzed)
	assert.Equal(t, 0, result.MalformedLines)
	assert.Contains(t, result.Message, "Analyzed 1 files: 0 issues")
}

func TestInvoke_MissingManifest(t *testing.T) {
	dir := writeProject(t, false)
	runner := &fakeRunner{}

	_, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.Error(t, err)
	assert.Equal(t, domain.ConfigurationError, domain.KindOf(err))
	assert.Contains(t, err.Error(), "pubspec.yaml")
	// Nothing was spawned; the manifest check comes first.
	assert.Nil(t, runner.gotArgs)
}

func TestInvoke_AnalyzerNotOnPath(t *testing.T) {
	dir := writeProject(t, true)
	runner := &fakeRunner{lookPathErr: errors.New("executable file not found in $PATH")}

	_, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.Error(t, err)
	assert.Equal(t, domain.ToolUnavailable, domain.KindOf(err))
	assert.NotEmpty(t, domain.HintOf(err))
}

func TestInvoke_MalformedLinesCountedNotFatal(t *testing.T) {
	dir := writeProject(t, true)
	stdout := []byte(`{"file":"lib/main.dart","severity":"error","message":"Undefined name 'foo'","line":3,"column":7}
this is not json at all
`)
	runner := &fakeRunner{stdout: stdout, exitCode: 3}

	result, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, domain.SeverityError, result.Issues[0].Severity)
	assert.Equal(t, "Undefined name 'foo'", result.Issues[0].Message)
	assert.Equal(t, 1, result.MalformedLines)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "skipped 1 malformed output line(s)")
}

func TestInvoke_MixedStream(t *testing.T) {
	dir := writeProject(t, true)
	stdout := []byte(`{"file":"lib/a.dart","severity":"WARNING","message":"unused import","line":1}
garbage-one
{"file":"lib/b.dart","severity":"hint","message":"prefer const"}
{truncated
{"severity":"Info","message":"no file given"}
`)
	runner := &fakeRunner{stdout: stdout, exitCode: 1}

	result, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.NoError(t, err)
	require.Len(t, result.Issues, 3)
	assert.Equal(t, 2, result.MalformedLines)

	// Severities normalize case-insensitively, unknown maps to info.
	assert.Equal(t, domain.SeverityWarning, result.Issues[0].Severity)
	assert.Equal(t, domain.SeverityInfo, result.Issues[1].Severity)
	assert.Equal(t, domain.SeverityInfo, result.Issues[2].Severity)

	// A diagnostic without a file falls back to the project root.
	assert.NotEmpty(t, result.Issues[2].FilePath)

	// Warnings and info do not fail the run.
	assert.True(t, result.Success)
}

func TestInvoke_EmptyLinesNotCountedMalformed(t *testing.T) {
	dir := writeProject(t, true)
	runner := &fakeRunner{stdout: []byte("\n\n   \n"), exitCode: 0}

	result, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.MalformedLines)
	assert.True(t, result.Success)
}

func TestInvoke_ProcessFailure(t *testing.T) {
	dir := writeProject(t, true)
	runner := &fakeRunner{stdout: nil, exitCode: 64}

	_, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.Error(t, err)
	assert.Equal(t, domain.ProcessFailure, domain.KindOf(err))
	assert.Contains(t, err.Error(), "exited with code 64")
}

func TestInvoke_NonzeroExitWithOnlyGarbledOutput(t *testing.T) {
	// Nonempty output that parses to zero diagnostics is still a broken
	// tool run, not a clean one.
	dir := writeProject(t, true)
	runner := &fakeRunner{stdout: []byte("garbage one\ngarbage two\n"), exitCode: 64}

	_, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.Error(t, err)
	assert.Equal(t, domain.ProcessFailure, domain.KindOf(err))
	assert.Contains(t, err.Error(), "exited with code 64")
}

func TestInvoke_SpawnFailure(t *testing.T) {
	dir := writeProject(t, true)
	runner := &fakeRunner{runErr: errors.New("fork/exec: permission denied")}

	_, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.Error(t, err)
	assert.Equal(t, domain.ProcessFailure, domain.KindOf(err))
}

func TestInvoke_SuccessFromIssuesNotExitCode(t *testing.T) {
	// A nonzero exit alongside parseable non-error diagnostics is still a
	// successful run.
	dir := writeProject(t, true)
	stdout := []byte(`{"file":"lib/main.dart","severity":"info","message":"prefer final"}` + "\n")
	runner := &fakeRunner{stdout: stdout, exitCode: 1}

	result, err := newInvoker(runner).Invoke(context.Background(), domain.DefaultConfig(), dir, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Issues, 1)
}
