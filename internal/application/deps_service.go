package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/fluttervet/fluttervet/internal/domain"
)

// DepsService reports declared dependencies against the latest versions
// published in the package registry.
type DepsService struct {
	registry domain.PackageRegistry
	logger   *slog.Logger
}

func NewDepsService(registry domain.PackageRegistry, logger *slog.Logger) *DepsService {
	return &DepsService{registry: registry, logger: logger}
}

// sdkDependencies are satisfied by the SDK, not the registry.
var sdkDependencies = map[string]bool{
	"flutter":               true,
	"flutter_test":          true,
	"flutter_localizations": true,
	"sdk":                   true,
}

// CheckDependencies scrapes pubspec.yaml and looks each dependency up in
// the registry, in sorted name order. Lookup failures are reported per
// dependency, never fatal to the report.
func (s *DepsService) CheckDependencies(ctx context.Context, projectPath string) ([]domain.DependencyStatus, error) {
	deps := ScrapePubspec(projectPath)
	if len(deps) == 0 {
		return []domain.DependencyStatus{}, nil
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		if !sdkDependencies[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	statuses := make([]domain.DependencyStatus, 0, len(names))
	for _, name := range names {
		status := domain.DependencyStatus{Name: name, Declared: deps[name]}

		latest, err := s.registry.LatestVersion(ctx, name)
		if err != nil {
			status.LookupErr = err.Error()
			s.logger.Debug("registry lookup failed", "package", name, "error", err.Error())
		} else {
			status.Latest = latest
			status.UpToDate = declaredMatches(deps[name], latest)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// declaredMatches compares the declared constraint against the latest
// version by stripping common constraint prefixes. A coarse check, not a
// constraint solver.
func declaredMatches(declared, latest string) bool {
	v := strings.Trim(strings.TrimSpace(declared), `'"`)
	for _, prefix := range []string{"^", ">=", "~"} {
		v = strings.TrimPrefix(v, prefix)
	}
	return v == latest
}
