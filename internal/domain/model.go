package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// NormalizeSeverity maps an analyzer-reported severity string onto the
// three-level scale. Matching is case-insensitive; anything unrecognized
// is treated as info rather than dropped.
func NormalizeSeverity(s string) string {
	switch {
	case strings.EqualFold(s, SeverityError):
		return SeverityError
	case strings.EqualFold(s, SeverityWarning):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// ValidationIssue is a single diagnostic reported by the analyzer.
type ValidationIssue struct {
	FilePath   string `json:"filePath"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult is the outcome of one analyzer run. Success is derived
// from the final issue list, never from the analyzer's exit code alone.
type ValidationResult struct {
	Success        bool              `json:"success"`
	Issues         []ValidationIssue `json:"issues"`
	FilesAnalyzed  int               `json:"filesAnalyzed"`
	Elapsed        time.Duration     `json:"elapsed"`
	Message        string            `json:"message"`
	MalformedLines int               `json:"malformedLines,omitempty"`
}

// CountBySeverity partitions the issue list by severity. The three counts
// always sum to len(r.Issues).
func (r *ValidationResult) CountBySeverity() (errors, warnings, infos int) {
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}

// HasErrors reports whether any error-severity issue is present.
func (r *ValidationResult) HasErrors() bool {
	e, _, _ := r.CountBySeverity()
	return e > 0
}

// ClassInfo describes one class declaration found by the heuristic
// inspector. The project context keys classes by simple name only, so
// same-named classes in different files collide; the merge happens in
// sorted file order, which at least makes the winner deterministic.
type ClassInfo struct {
	Name         string   `json:"name"`
	FilePath     string   `json:"filePath"`
	Line         int      `json:"line,omitempty"`
	Superclass   string   `json:"superclass,omitempty"`
	Interfaces   []string `json:"interfaces,omitempty"`
	Mixins       []string `json:"mixins,omitempty"`
	Constructors []string `json:"constructors,omitempty"`
	Methods      []string `json:"methods,omitempty"`
	Properties   []string `json:"properties,omitempty"`
}

// DeprecatedUsage is one occurrence of a deprecation marker.
type DeprecatedUsage struct {
	FilePath    string `json:"filePath"`
	Line        int    `json:"line"`
	API         string `json:"api"`
	Replacement string `json:"replacement,omitempty"`
}

// StyleProfile aggregates style signals across the whole tree.
type StyleProfile struct {
	UsesNullSafety  bool           `json:"usesNullSafety"`
	UsesExtensions  bool           `json:"usesExtensions"`
	UsesMixins      bool           `json:"usesMixins"`
	NamingPatterns  map[string]int `json:"namingPatterns"`
	NullableTypes   int            `json:"nullableTypes"`
	ExtensionsCount int            `json:"extensionsCount"`
	MixinsCount     int            `json:"mixinsCount"`
}

// TypeInventory lists custom types discovered by the inspector.
type TypeInventory struct {
	CustomTypes  []string `json:"customTypes,omitempty"`
	GenericTypes []string `json:"genericTypes,omitempty"`
	TypeAliases  []string `json:"typeAliases,omitempty"`
}

// RepoInfo is git metadata for the project, when the project is a
// repository.
type RepoInfo struct {
	IsRepo bool   `json:"isRepo"`
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
}

// ProjectContext is the heuristic model of the codebase. It is rebuilt
// fully on every request and discarded afterwards; nothing here survives
// across calls.
type ProjectContext struct {
	RootPath     string               `json:"rootPath"`
	Dependencies []string             `json:"dependencies"`
	Imports      map[string][]string  `json:"imports"`
	Classes      map[string]ClassInfo `json:"classes"`
	Deprecated   []DeprecatedUsage    `json:"deprecated,omitempty"`
	Style        StyleProfile         `json:"style"`
	Types        TypeInventory        `json:"types"`
	Repo         RepoInfo             `json:"repo"`
}

// ClassNames returns the inventory's class names in sorted order.
func (c *ProjectContext) ClassNames() []string {
	names := make([]string, 0, len(c.Classes))
	for name := range c.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimilarIssue is one excerpt found while scanning the codebase for lines
// that resemble a reported error.
type SimilarIssue struct {
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Excerpt  string `json:"excerpt"`
}

// ErrorContext is the advisory picture assembled around one error
// message. It is heuristic by construction and must not be confused with
// the analyzer's authoritative diagnostics.
type ErrorContext struct {
	Message        string         `json:"message"`
	FilePath       string         `json:"filePath,omitempty"`
	Line           int            `json:"line,omitempty"`
	Column         int            `json:"column,omitempty"`
	Keywords       []string       `json:"keywords,omitempty"`
	SimilarIssues  []SimilarIssue `json:"similarIssues,omitempty"`
	Solutions      []string       `json:"solutions,omitempty"`
	NearbyClasses  []string       `json:"nearbyClasses,omitempty"`
	RelevantAPIs   []string       `json:"relevantApis,omitempty"`
	ImportsToCheck []string       `json:"importsToCheck,omitempty"`
}

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CodeSuggestion is one generated remediation candidate.
type CodeSuggestion struct {
	Description     string   `json:"description"`
	Snippet         string   `json:"snippet"`
	Explanation     string   `json:"explanation,omitempty"`
	RequiredImports []string `json:"requiredImports,omitempty"`
	RelatedClasses  []string `json:"relatedClasses,omitempty"`
	Confidence      string   `json:"confidence"`
}

// DependencyStatus is one row of the outdated-dependency report.
type DependencyStatus struct {
	Name      string `json:"name"`
	Declared  string `json:"declared"`
	Latest    string `json:"latest,omitempty"`
	UpToDate  bool   `json:"upToDate"`
	LookupErr string `json:"lookupError,omitempty"`
}
