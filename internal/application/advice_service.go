package application

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fluttervet/fluttervet/internal/domain"
	"github.com/fluttervet/fluttervet/internal/domain/heuristics"
)

// similarIssueCap bounds the codebase scan; matches come back in
// file-scan order, not relevance order.
const similarIssueCap = 5

// nearbyWindow is the ± line window searched for class declarations
// around a reported error location.
const nearbyWindow = 10

// AdviceService assembles advisory context around error messages and
// generates ranked code suggestions. Everything here is heuristic; it
// must not be confused with the analyzer's authoritative diagnostics.
type AdviceService struct {
	scanner   domain.ProjectScanner
	inspector domain.SourceInspector
	logger    *slog.Logger
}

func NewAdviceService(scanner domain.ProjectScanner, inspector domain.SourceInspector, logger *slog.Logger) *AdviceService {
	return &AdviceService{scanner: scanner, inspector: inspector, logger: logger}
}

// ResolveErrorContext searches the codebase and the fixed knowledge
// tables for likely causes of the given error message.
func (s *AdviceService) ResolveErrorContext(ctx context.Context, projectPath string, exclude []string, message, filePath string, line, column int) (*domain.ErrorContext, error) {
	scan, err := s.scanner.Scan(projectPath, exclude...)
	if err != nil {
		return nil, err
	}

	keywords := heuristics.ExtractKeywords(message)

	ec := &domain.ErrorContext{
		Message:        message,
		FilePath:       filePath,
		Line:           line,
		Column:         column,
		Keywords:       keywords,
		SimilarIssues:  s.findSimilarIssues(scan, keywords),
		Solutions:      heuristics.LookupRemediations(keywords),
		RelevantAPIs:   heuristics.LookupAPIs(keywords),
		ImportsToCheck: heuristics.LookupImports(keywords),
	}

	if filePath != "" && line > 0 {
		ec.NearbyClasses = s.findNearbyClasses(scan.RootPath, filePath, line)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ec, nil
}

// Suggestions runs the suggestion engine against a freshly built project
// context.
func (s *AdviceService) Suggestions(req heuristics.SuggestRequest, pc *domain.ProjectContext, max int) []domain.CodeSuggestion {
	suggestions := heuristics.Suggest(req, pc, max)
	s.logger.Debug("suggestions generated",
		"errorType", req.ErrorType,
		"count", len(suggestions))
	return suggestions
}

// findSimilarIssues scans source lines for any extracted keyword paired
// with an error-like marker, capped at similarIssueCap matches.
func (s *AdviceService) findSimilarIssues(scan *domain.ScanResult, keywords []string) []domain.SimilarIssue {
	if len(keywords) == 0 {
		return nil
	}

	var matches []domain.SimilarIssue
	for _, f := range scan.DartFiles {
		if len(matches) >= similarIssueCap {
			break
		}
		matches = s.scanFileForIssues(scan.RootPath, f, keywords, matches)
	}
	return matches
}

func (s *AdviceService) scanFileForIssues(root, relPath string, keywords []string, matches []domain.SimilarIssue) []domain.SimilarIssue {
	f, err := os.Open(filepath.Join(root, relPath))
	if err != nil {
		return matches
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if len(matches) >= similarIssueCap {
			break
		}
		line := sc.Text()
		if !heuristics.LooksErrorLike(line) {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matches = append(matches, domain.SimilarIssue{
					FilePath: relPath,
					Line:     lineNo,
					Excerpt:  strings.TrimSpace(line),
				})
				break
			}
		}
	}
	return matches
}

// findNearbyClasses returns class names declared within nearbyWindow
// lines of the reported location.
func (s *AdviceService) findNearbyClasses(root, filePath string, line int) []string {
	rel := filePath
	if filepath.IsAbs(filePath) {
		if r, err := filepath.Rel(root, filePath); err == nil {
			rel = r
		}
	}

	classes, err := s.inspector.ExtractClasses(filepath.Join(root, rel))
	if err != nil {
		return nil
	}

	var nearby []string
	for _, c := range classes {
		delta := c.Line - line
		if delta < 0 {
			delta = -delta
		}
		if delta <= nearbyWindow {
			nearby = append(nearby, c.Name)
		}
	}
	return nearby
}
