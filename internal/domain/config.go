package domain

// Config is the tool configuration, resolved once at startup and threaded
// through call sites explicitly.
type Config struct {
	AnalyzerBin    string   `yaml:"analyzer_bin"`
	ExcludePaths   []string `yaml:"exclude_paths"`
	RegistryURL    string   `yaml:"registry_url"`
	MaxSuggestions int      `yaml:"max_suggestions"`
	Verbose        bool     `yaml:"verbose"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() Config {
	return Config{
		AnalyzerBin:    "dart",
		RegistryURL:    "https://pub.dev",
		MaxSuggestions: 5,
	}
}

// Merge overlays explicit (non-zero) override values on top of c.
func (c Config) Merge(override Config) Config {
	result := c
	if override.AnalyzerBin != "" {
		result.AnalyzerBin = override.AnalyzerBin
	}
	if len(override.ExcludePaths) > 0 {
		result.ExcludePaths = override.ExcludePaths
	}
	if override.RegistryURL != "" {
		result.RegistryURL = override.RegistryURL
	}
	if override.MaxSuggestions > 0 {
		result.MaxSuggestions = override.MaxSuggestions
	}
	if override.Verbose {
		result.Verbose = true
	}
	return result
}
