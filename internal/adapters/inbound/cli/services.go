package cli

import (
	"log/slog"

	"github.com/fluttervet/fluttervet/internal/adapters/outbound/analyzer"
	configloader "github.com/fluttervet/fluttervet/internal/adapters/outbound/config"
	"github.com/fluttervet/fluttervet/internal/adapters/outbound/gitinfo"
	"github.com/fluttervet/fluttervet/internal/adapters/outbound/inspector"
	"github.com/fluttervet/fluttervet/internal/adapters/outbound/registry"
	"github.com/fluttervet/fluttervet/internal/adapters/outbound/scanner"
	"github.com/fluttervet/fluttervet/internal/application"
	"github.com/fluttervet/fluttervet/internal/domain"
)

// services bundles the wired application layer for one command run.
type services struct {
	cfg      domain.Config
	validate *application.ValidateService
	contexts *application.ContextService
	advice   *application.AdviceService
	deps     *application.DepsService
	runner   domain.CommandRunner
}

// newServices loads configuration for projectPath and wires the standard
// adapter set. The logger is built here because config may raise the
// diagnostic level (verbose in .fluttervet.yaml) beyond what the flag
// asked for.
func newServices(projectPath string, verbose bool) (*services, *slog.Logger, error) {
	cfg, err := configloader.New().Load(projectPath)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(verbose || cfg.Verbose)

	sc := scanner.New()
	insp := inspector.New()
	runner := analyzer.NewRunner()
	invoker := analyzer.NewInvoker(runner, sc, logger)

	return &services{
		cfg:      cfg,
		validate: application.NewValidateService(invoker, logger),
		contexts: application.NewContextService(sc, insp, gitinfo.New(), logger),
		advice:   application.NewAdviceService(sc, insp, logger),
		deps:     application.NewDepsService(registry.New(cfg.RegistryURL), logger),
		runner:   runner,
	}, logger, nil
}
