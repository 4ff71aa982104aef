// Package config provides hierarchical configuration management for releasenotes using koanf.
// Configuration is loaded with priority: flags > environment variables > explicit --config file
// > project config (.releasenotes.yml) > user config (~/.config/releasenotes/config.yml) > defaults.
// The project config also accepts the legacy .releasenotes.json format with a deprecation warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "RELEASENOTES_"

// ConfigSource is the layer a config file was loaded as
type ConfigSource string

const (
	SourceUser     ConfigSource = "user"
	SourceProject  ConfigSource = "project"
	SourceExplicit ConfigSource = "explicit"
)

// Configuration represents the releasenotes CLI configuration
type Configuration struct {
	// ExcludeMerges is the default for --excludeMerges.
	ExcludeMerges bool `koanf:"exclude_merges" yaml:"exclude_merges"`
	// OutputFile is the file name written next to the executable when no
	// output path is given.
	OutputFile string `koanf:"output_file" yaml:"output_file" validate:"required,filename"`
	// Template is a custom template path. Empty selects the embedded template.
	Template string `koanf:"template" yaml:"template"`
	// Markdown renders commit bodies as Markdown instead of escaped text.
	Markdown bool `koanf:"markdown" yaml:"markdown"`
	// DateFormat is a Go time layout used for commit dates.
	DateFormat string `koanf:"date_format" yaml:"date_format" validate:"required,timelayout"`
	// Checkout checks the branch out while history is read.
	Checkout bool `koanf:"checkout" yaml:"checkout"`
	// LegacyTagFallback uses the third tag (descending by name) as the end
	// boundary when no end commit is given.
	LegacyTagFallback bool `koanf:"legacy_tag_fallback" yaml:"legacy_tag_fallback"`
	// FailOnEmpty turns an empty commit range into an error.
	FailOnEmpty bool   `koanf:"fail_on_empty" yaml:"fail_on_empty"`
	LogLevel    string `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `koanf:"log_format" yaml:"log_format" validate:"oneof=text json"`
	NoColor     bool   `koanf:"no_color" yaml:"no_color"`
	ShowLogo    bool   `koanf:"show_logo" yaml:"show_logo"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// RepoPath is the directory searched for the project config (default: current directory).
	RepoPath string
	// ConfigFile is an explicit config file given with --config. It must exist.
	ConfigFile string
	// UserConfigPath overrides the user config path (for testing).
	UserConfigPath string
	// Overrides are flag values keyed by config key. They win over every other source.
	Overrides map[string]any
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Loaded is the effective configuration plus the files that contributed to it.
type Loaded struct {
	Config *Configuration
	// Sources maps each loaded file to the layer it was loaded as.
	Sources map[string]ConfigSource
}

// Files returns the loaded config files in a stable order.
func (l *Loaded) Files() []string {
	files := make([]string, 0, len(l.Sources))
	for f := range l.Sources {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Loaded, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)
	sources := make(map[string]ConfigSource)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath, sources); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.RepoPath, sources, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadExplicitConfig(k, opts.ConfigFile, sources); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	loadOverrides(k, opts.Overrides)

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Sources: sources}, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when it exists.
func loadUserConfig(k *koanf.Koanf, customPath string, sources map[string]ConfigSource) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, SourceUser); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	sources[path] = SourceUser
	return nil
}

// loadProjectConfig loads the project-level config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadProjectConfig(k *koanf.Koanf, repoPath string, sources map[string]ConfigSource, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath(repoPath)
	legacyPath := LegacyProjectConfigPath(repoPath)

	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	if yamlExists {
		if err := loadYAMLConfig(k, yamlPath, SourceProject); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		sources[yamlPath] = SourceProject
		if legacyExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n\n", legacyPath, yamlPath)
		}
		return nil
	}

	if legacyExists {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		sources[legacyPath] = SourceProject
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Move its settings to %s.\n\n", filepath.Base(yamlPath))
		}
	}
	return nil
}

// loadExplicitConfig loads the file given with --config. JSON is selected by
// extension, YAML otherwise.
func loadExplicitConfig(k *koanf.Koanf, path string, sources map[string]ConfigSource) error {
	if path == "" {
		return nil
	}
	if !fileExists(path) {
		return &ValidationError{FilePath: path, Message: "config file not found"}
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
	} else if err := loadYAMLConfig(k, path, SourceExplicit); err != nil {
		return err
	}
	sources[path] = SourceExplicit
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string, source ConfigSource) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// loadOverrides applies flag values on top of everything else.
func loadOverrides(k *koanf.Koanf, overrides map[string]any) {
	for key, value := range overrides {
		k.Set(key, value)
	}
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.Template = expandHomePath(cfg.Template)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: RELEASENOTES_EXCLUDE_MERGES -> exclude_merges
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
