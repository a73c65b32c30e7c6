package application

import (
	"context"
	"log/slog"

	"github.com/fluttervet/fluttervet/internal/domain"
)

// AnalyzerInvoker is the inbound face of the analyzer adapter.
type AnalyzerInvoker interface {
	Invoke(ctx context.Context, cfg domain.Config, projectPath string, exclude []string) (*domain.ValidationResult, error)
}

// ValidateService runs the external analyzer and shapes its outcome.
// Component faults are caught here and converted into a success:false
// result payload; callers never see a bare error for an expected failure
// mode.
type ValidateService struct {
	invoker AnalyzerInvoker
	logger  *slog.Logger
}

func NewValidateService(invoker AnalyzerInvoker, logger *slog.Logger) *ValidateService {
	return &ValidateService{invoker: invoker, logger: logger}
}

// Validate analyzes the project at projectPath. The returned result is
// always non-nil; faults (missing manifest, missing analyzer, broken
// tool run) come back as a failed result carrying the fault's message
// and hint.
func (s *ValidateService) Validate(ctx context.Context, cfg domain.Config, projectPath string, exclude []string) *domain.ValidationResult {
	result, err := s.invoker.Invoke(ctx, cfg, projectPath, exclude)
	if err != nil {
		s.logger.Warn("validation failed",
			"kind", string(domain.KindOf(err)),
			"error", err.Error())

		message := err.Error()
		if hint := domain.HintOf(err); hint != "" {
			message += ". " + hint
		}
		return &domain.ValidationResult{
			Success: false,
			Issues:  []domain.ValidationIssue{},
			Message: message,
		}
	}
	return result
}
