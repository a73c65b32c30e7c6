package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fluttervet/fluttervet/internal/domain"
)

var skipDirs = map[string]bool{
	".git":         true,
	".dart_tool":   true,
	"build":        true,
	".idea":        true,
	"node_modules": true,
	".fvm":         true,
}

// FileScanner implements domain.ProjectScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan walks projectPath and collects Dart files. Directories matching a
// built-in skip list or any excludePaths fragment are pruned. File lists
// come back sorted so two scans of an unchanged tree compare equal.
func (s *FileScanner) Scan(projectPath string, excludePaths ...string) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		return nil, domain.NewFault(domain.ConfigurationError,
			"project path is not a directory: "+projectPath,
			"Pass the root directory of a Dart or Flutter project")
	}

	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[strings.TrimSuffix(p, "/")] = true
	}

	result := &domain.ScanResult{RootPath: absPath}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel(absPath, path)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if skipDirs[d.Name()] || extraSkip[d.Name()] || excluded(relPath, excludePaths) {
				return filepath.SkipDir
			}
			return nil
		}

		if excluded(relPath, excludePaths) {
			return nil
		}

		result.AllFiles = append(result.AllFiles, relPath)

		if d.Name() == "pubspec.yaml" && filepath.Dir(relPath) == "." {
			result.HasPubspec = true
		}

		if strings.HasSuffix(d.Name(), ".dart") {
			result.DartFiles = append(result.DartFiles, relPath)
			if strings.HasSuffix(d.Name(), "_test.dart") {
				result.TestFiles = append(result.TestFiles, relPath)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.AllFiles)
	sort.Strings(result.DartFiles)
	sort.Strings(result.TestFiles)

	return result, nil
}

// excluded reports whether relPath contains any excluded fragment.
func excluded(relPath string, excludePaths []string) bool {
	norm := filepath.ToSlash(relPath)
	for _, frag := range excludePaths {
		frag = strings.Trim(strings.TrimSpace(frag), "/")
		if frag == "" {
			continue
		}
		if strings.Contains("/"+norm+"/", "/"+frag+"/") || strings.Contains(norm, frag) {
			return true
		}
	}
	return false
}
