package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fluttervet/fluttervet/internal/domain"
)

const fileName = ".fluttervet.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .fluttervet.yaml,
// then overlaying FLUTTERVET_* environment variables (a project-local
// .env file is loaded first, if present).
type YAMLLoader struct{}

func New() *YAMLLoader { return &YAMLLoader{} }

func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	switch {
	case err == nil:
		var fileCfg domain.Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return domain.Config{}, domain.WrapFault(domain.ConfigurationError,
				"parsing "+fileName,
				"Fix the YAML syntax in "+fileName, err)
		}
		cfg = cfg.Merge(fileCfg)
	case errors.Is(err, os.ErrNotExist):
		// defaults apply
	default:
		return domain.Config{}, err
	}

	_ = godotenv.Load(filepath.Join(projectPath, ".env"))
	cfg = cfg.Merge(envOverrides())

	return cfg, nil
}

func envOverrides() domain.Config {
	var cfg domain.Config
	cfg.AnalyzerBin = os.Getenv("FLUTTERVET_ANALYZER")
	cfg.RegistryURL = os.Getenv("FLUTTERVET_REGISTRY")
	if v := os.Getenv("FLUTTERVET_EXCLUDE"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.ExcludePaths = append(cfg.ExcludePaths, p)
			}
		}
	}
	if v := os.Getenv("FLUTTERVET_MAX_SUGGESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSuggestions = n
		}
	}
	return cfg
}

// ResolveAnalyzerVersion asks the analyzer binary for its version once at
// startup. The value is threaded through call sites explicitly; there is
// no lazily-initialized global probe.
func ResolveAnalyzerVersion(runner domain.CommandRunner, bin string) string {
	out, code, err := runner.Run(context.Background(), "", bin, "--version")
	if err != nil || code != 0 {
		return "unknown"
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "unknown"
	}
	if i := strings.IndexByte(version, '\n'); i > 0 {
		version = version[:i]
	}
	return version
}
