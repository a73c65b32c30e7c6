package domain

import "context"

// ProjectScanner walks a project directory and returns file metadata.
// Implementations honor the same exclusion rules as the analyzer run so
// file counts stay meaningful regardless of what the analyzer reports.
type ProjectScanner interface {
	Scan(projectPath string, excludePaths ...string) (*ScanResult, error)
}

// ScanResult holds the result of scanning a project directory.
type ScanResult struct {
	RootPath   string   `json:"root_path"`
	DartFiles  []string `json:"dart_files"`
	TestFiles  []string `json:"test_files"`
	AllFiles   []string `json:"all_files"`
	HasPubspec bool     `json:"has_pubspec"`
}

// SourceInspector extracts facts from a single source file. Each method
// is an independent read-only pass, so the context builder can run them
// concurrently against the same file set.
//
// This is a heuristic line-pattern extractor, not a parser. Known error
// modes: declarations split across physical lines are missed, and
// declaration-shaped text inside block comments or multi-line strings is
// reported as real. The trade is speed and zero parser dependency.
type SourceInspector interface {
	ScrapeImports(path string) ([]string, error)
	ExtractClasses(path string) ([]ClassInfo, error)
	ScanDeprecated(path string) ([]DeprecatedUsage, error)
	CollectStyle(path string) (StyleSignals, error)
	CollectTypes(path string) (TypeFacts, error)
}

// StyleSignals are per-file style observations, merged into the project
// StyleProfile.
type StyleSignals struct {
	NullableTypes int
	Extensions    int
	Mixins        int
	Naming        map[string]int
}

// TypeFacts are per-file type declarations, merged into the project
// TypeInventory.
type TypeFacts struct {
	CustomTypes  []string
	GenericTypes []string
	TypeAliases  []string
}

// CommandRunner executes an external process and captures its output.
// A nonzero exit is reported through exitCode, not err; err is reserved
// for spawn failures.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) (stdout []byte, exitCode int, err error)
}

// ConfigLoader resolves the tool configuration for a project.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// GitMetadata reads repository metadata for a project, best effort.
type GitMetadata interface {
	Describe(projectPath string) RepoInfo
}

// PackageRegistry looks up published package metadata.
type PackageRegistry interface {
	LatestVersion(ctx context.Context, pkg string) (string, error)
}
