package application

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fluttervet/fluttervet/internal/domain"
)

// ContextService builds the heuristic project model. The context is
// rebuilt fully on every call and never cached; staleness is traded for
// repeated work.
type ContextService struct {
	scanner   domain.ProjectScanner
	inspector domain.SourceInspector
	git       domain.GitMetadata
	logger    *slog.Logger
}

func NewContextService(scanner domain.ProjectScanner, inspector domain.SourceInspector, git domain.GitMetadata, logger *slog.Logger) *ContextService {
	return &ContextService{scanner: scanner, inspector: inspector, git: git, logger: logger}
}

// BuildContext scans the tree and runs the extraction passes. The passes
// touch disjoint accumulators over the same read-only file set, so they
// run concurrently and merge at the end. Given an unchanged tree, two
// consecutive builds are structurally identical: every list is stabilized
// by sorting on (file path, line number).
func (s *ContextService) BuildContext(ctx context.Context, projectPath string, exclude []string) (*domain.ProjectContext, error) {
	scan, err := s.scanner.Scan(projectPath, exclude...)
	if err != nil {
		return nil, err
	}

	pc := &domain.ProjectContext{
		RootPath: scan.RootPath,
		Imports:  make(map[string][]string),
		Classes:  make(map[string]domain.ClassInfo),
		Style:    domain.StyleProfile{NamingPatterns: make(map[string]int)},
	}

	var (
		wg         sync.WaitGroup
		deps       map[string]string
		imports    = make(map[string][]string)
		classes    []domain.ClassInfo
		deprecated []domain.DeprecatedUsage
		style      domain.StyleProfile
		types      domain.TypeFacts
	)
	style.NamingPatterns = make(map[string]int)

	// Pass 1: dependency-manifest scrape.
	wg.Add(1)
	go func() {
		defer wg.Done()
		deps = ScrapePubspec(scan.RootPath)
	}()

	// Pass 2: import-statement scrape per file.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, f := range scan.DartFiles {
			imps, err := s.inspector.ScrapeImports(filepath.Join(scan.RootPath, f))
			if err != nil || len(imps) == 0 {
				continue
			}
			imports[f] = imps
		}
	}()

	// Pass 3: class inventory.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, f := range scan.DartFiles {
			found, err := s.inspector.ExtractClasses(filepath.Join(scan.RootPath, f))
			if err != nil {
				continue
			}
			for i := range found {
				found[i].FilePath = f
			}
			classes = append(classes, found...)
		}
	}()

	// Pass 4: deprecated-marker scan.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, f := range scan.DartFiles {
			found, err := s.inspector.ScanDeprecated(filepath.Join(scan.RootPath, f))
			if err != nil {
				continue
			}
			for i := range found {
				found[i].FilePath = f
			}
			deprecated = append(deprecated, found...)
		}
	}()

	// Pass 5: style-profile aggregation + type inventory.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, f := range scan.DartFiles {
			abs := filepath.Join(scan.RootPath, f)
			if signals, err := s.inspector.CollectStyle(abs); err == nil {
				style.NullableTypes += signals.NullableTypes
				style.ExtensionsCount += signals.Extensions
				style.MixinsCount += signals.Mixins
				for k, v := range signals.Naming {
					style.NamingPatterns[k] += v
				}
			}
			if facts, err := s.inspector.CollectTypes(abs); err == nil {
				types.CustomTypes = append(types.CustomTypes, facts.CustomTypes...)
				types.GenericTypes = append(types.GenericTypes, facts.GenericTypes...)
				types.TypeAliases = append(types.TypeAliases, facts.TypeAliases...)
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge step. DartFiles is sorted, and each pass appended in file
	// order, so sorting below is on already-deterministic input.
	for name := range deps {
		pc.Dependencies = append(pc.Dependencies, name)
	}
	sort.Strings(pc.Dependencies)
	if pc.Dependencies == nil {
		pc.Dependencies = []string{}
	}

	pc.Imports = imports

	sort.SliceStable(classes, func(i, j int) bool {
		if classes[i].FilePath != classes[j].FilePath {
			return classes[i].FilePath < classes[j].FilePath
		}
		return classes[i].Line < classes[j].Line
	})
	// Keyed by simple name only: same-named classes in different files
	// collide and the last sorted file wins. Deterministic, but lossy.
	for _, c := range classes {
		pc.Classes[c.Name] = c
	}

	sort.SliceStable(deprecated, func(i, j int) bool {
		if deprecated[i].FilePath != deprecated[j].FilePath {
			return deprecated[i].FilePath < deprecated[j].FilePath
		}
		return deprecated[i].Line < deprecated[j].Line
	})
	pc.Deprecated = deprecated

	style.UsesNullSafety = style.NullableTypes > 0
	style.UsesExtensions = style.ExtensionsCount > 0
	style.UsesMixins = style.MixinsCount > 0
	pc.Style = style

	pc.Types = domain.TypeInventory{
		CustomTypes:  sortedUnique(types.CustomTypes),
		GenericTypes: sortedUnique(types.GenericTypes),
		TypeAliases:  sortedUnique(types.TypeAliases),
	}

	pc.Repo = s.git.Describe(scan.RootPath)

	s.logger.Debug("project context built",
		"root", scan.RootPath,
		"files", len(scan.DartFiles),
		"classes", len(pc.Classes),
		"dependencies", len(pc.Dependencies))

	return pc, nil
}

// ScrapePubspec extracts declared dependency names and version
// constraints from pubspec.yaml. Deliberately a tolerant line-oriented
// scrape, not a strict manifest-grammar parse: minor formatting variance
// must not break dependency discovery.
func ScrapePubspec(rootPath string) map[string]string {
	f, err := os.Open(filepath.Join(rootPath, "pubspec.yaml"))
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()

	deps := make(map[string]string)
	inDeps := false

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Section headers sit at column zero.
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			inDeps = trimmed == "dependencies:" || trimmed == "dev_dependencies:"
			continue
		}
		if !inDeps {
			continue
		}

		// Only direct children of the section ("  name: constraint");
		// deeper indentation belongs to a structured dependency spec.
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent > 2 {
			continue
		}

		name, constraint, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, "{}[]'\"") {
			continue
		}
		deps[name] = strings.TrimSpace(constraint)
	}
	return deps
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
