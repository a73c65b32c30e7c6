// Package analyzer wraps the external static-analysis executable. The
// analyzer is expected to emit one JSON diagnostic per physical output
// line; the invoker parses each line independently so partial corruption
// of the stream never aborts a run.
package analyzer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fluttervet/fluttervet/internal/domain"
)

const manifestName = "pubspec.yaml"

// maxLineSize bounds a single analyzer output line (1 MiB).
const maxLineSize = 1024 * 1024

// diagnosticLine is the wire shape of one analyzer diagnostic.
type diagnosticLine struct {
	File       string `json:"file"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Rule       string `json:"rule"`
	Suggestion string `json:"suggestion"`
}

// Invoker spawns the analyzer and turns its streamed output into a
// structured result.
type Invoker struct {
	runner  domain.CommandRunner
	scanner domain.ProjectScanner
	logger  *slog.Logger
}

func NewInvoker(runner domain.CommandRunner, scanner domain.ProjectScanner, logger *slog.Logger) *Invoker {
	return &Invoker{runner: runner, scanner: scanner, logger: logger}
}

// Invoke runs the analyzer against projectPath and parses its output.
//
// Preflight fails fast before any heavy work: the analyzer binary must be
// reachable and the dependency manifest must exist at the project root.
// Those failures are distinct fault kinds, never empty results.
func (inv *Invoker) Invoke(ctx context.Context, cfg domain.Config, projectPath string, exclude []string) (*domain.ValidationResult, error) {
	start := time.Now()

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, domain.WrapFault(domain.ConfigurationError,
			"cannot resolve project path "+projectPath,
			"Pass an existing directory path", err)
	}

	if _, err := inv.runner.LookPath(cfg.AnalyzerBin); err != nil {
		return nil, domain.WrapFault(domain.ToolUnavailable,
			fmt.Sprintf("analyzer %q not found on PATH", cfg.AnalyzerBin),
			"Install the Dart SDK or set analyzer_bin in .fluttervet.yaml", err)
	}

	if _, err := os.Stat(filepath.Join(absPath, manifestName)); err != nil {
		return nil, domain.WrapFault(domain.ConfigurationError,
			fmt.Sprintf("no %s found in %s: not a Dart project", manifestName, absPath),
			"Run from a project root containing "+manifestName, err)
	}

	// File count comes from an independent walk with the same exclusions,
	// decoupled from whatever the analyzer reports. Progress stays
	// meaningful even when the analyzer finds nothing or crashes.
	scan, err := inv.scanner.Scan(absPath, exclude...)
	if err != nil {
		return nil, domain.WrapFault(domain.ConfigurationError,
			"scanning project tree failed", "Check directory permissions", err)
	}

	args := []string{"analyze", "--format=json", absPath}
	inv.logger.Debug("spawning analyzer", "bin", cfg.AnalyzerBin, "args", args)

	stdout, exitCode, err := inv.runner.Run(ctx, absPath, cfg.AnalyzerBin, args...)
	if err != nil {
		return nil, domain.WrapFault(domain.ProcessFailure,
			"analyzer process could not be started",
			"Verify the analyzer binary is executable", err)
	}

	issues, malformed := inv.parseStream(stdout, absPath)

	// Zero issues with a zero exit is a clean run. Zero parseable
	// diagnostics with a nonzero exit is a broken tool run, even when the
	// output was nonempty but entirely garbled. The two must never be
	// conflated.
	if exitCode != 0 && len(issues) == 0 {
		return nil, domain.NewFault(domain.ProcessFailure,
			fmt.Sprintf("analyzer exited with code %d and produced no parseable diagnostics", exitCode),
			"Run the analyzer manually to inspect its stderr")
	}

	result := &domain.ValidationResult{
		Issues:         issues,
		FilesAnalyzed:  len(scan.DartFiles),
		Elapsed:        time.Since(start),
		MalformedLines: malformed,
	}
	result.Success = !result.HasErrors()
	result.Message = summarize(result)
	return result, nil
}

// parseStream decodes one JSON object per line. A line that fails to
// parse is skipped and counted, never fatal.
func (inv *Invoker) parseStream(stdout []byte, root string) ([]domain.ValidationIssue, int) {
	issues := []domain.ValidationIssue{}
	malformed := 0

	sc := bufio.NewScanner(bytes.NewReader(stdout))
	sc.Buffer(make([]byte, maxLineSize), maxLineSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var diag diagnosticLine
		if err := json.Unmarshal(line, &diag); err != nil {
			malformed++
			inv.logger.Debug("skipping malformed analyzer line", "error", err)
			continue
		}

		file := diag.File
		if file == "" {
			file = root
		}
		issues = append(issues, domain.ValidationIssue{
			FilePath:   file,
			Message:    diag.Message,
			Severity:   domain.NormalizeSeverity(diag.Severity),
			Line:       diag.Line,
			Column:     diag.Column,
			Rule:       diag.Rule,
			Suggestion: diag.Suggestion,
		})
	}
	return issues, malformed
}

func summarize(r *domain.ValidationResult) string {
	errs, warns, infos := r.CountBySeverity()
	msg := fmt.Sprintf("Analyzed %d files: %d issues (%d errors, %d warnings, %d info)",
		r.FilesAnalyzed, len(r.Issues), errs, warns, infos)
	if r.MalformedLines > 0 {
		msg += fmt.Sprintf("; skipped %d malformed output line(s)", r.MalformedLines)
	}
	return msg
}
