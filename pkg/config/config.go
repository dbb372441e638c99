// Package config loads the run-wide Configuration consumed by the
// analysis core: language allow-list, enabled similarity measures,
// hours-estimation parameters, clone-detector invocation, and scheduling
// policy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mrshoenel/git-density/pkg/models"
)

// ExecutionPolicy selects the run's scheduling discipline.
type ExecutionPolicy int

const (
	// MaxParallel lets each parallel section run up to one worker per unit
	// of work.
	MaxParallel ExecutionPolicy = iota
	// Linear forces maximum-parallelism = 1 across commit pairs, yielding
	// serial pair processing. The hours estimator's per-config fan-out does
	// not consult the policy.
	Linear
)

func (p ExecutionPolicy) String() string {
	if p == Linear {
		return "Linear"
	}
	return "MaxParallel"
}

// UnmarshalText lets ExecutionPolicy be read from config files as a plain
// string ("linear" / "max_parallel").
func (p *ExecutionPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "linear":
		*p = Linear
	case "", "max_parallel", "maxparallel":
		*p = MaxParallel
	default:
		return fmt.Errorf("unknown execution_policy %q", string(text))
	}
	return nil
}

// HoursConfig is one (max_diff, first_commit_add) session-model parameter
// pair, both in minutes.
type HoursConfig struct {
	MaxDiff        int `koanf:"max_diff" toml:"max_diff"`
	FirstCommitAdd int `koanf:"first_commit_add" toml:"first_commit_add"`
}

// CloneDetectorConfig configures invocation of the external clone-detection
// subprocess.
type CloneDetectorConfig struct {
	BinaryPath string   `koanf:"binary_path" toml:"binary_path"`
	Args       []string `koanf:"args" toml:"args"`
}

// Config is the Configuration struct consumed by the core.
type Config struct {
	// Languages is the programming-language allow-list; a tree entry's
	// extension must map to one of these to be analyzed.
	Languages []string `koanf:"languages" toml:"languages"`

	// Measurements is the enabled-measurement set, a subset of the
	// similarity catalog. The None sentinel is implicit and always
	// applied regardless of this list.
	Measurements []string `koanf:"measurements" toml:"measurements"`

	// Hours is the set of session-model parameterizations to run in
	// parallel during the hours phase. Duplicates (identical max_diff AND
	// first_commit_add) are forbidden.
	Hours []HoursConfig `koanf:"hours" toml:"hours"`

	CloneDetector CloneDetectorConfig `koanf:"clone_detector" toml:"clone_detector"`

	// TempDir is the root under which per-pair <tmp>/<pair-id>/{old,new}
	// trees are written for clone detection.
	TempDir string `koanf:"temp_dir" toml:"temp_dir"`

	ExecutionPolicy ExecutionPolicy `koanf:"execution_policy" toml:"execution_policy"`

	SkipInitialCommit bool `koanf:"skip_initial_commit" toml:"skip_initial_commit"`
	SkipMergeCommits  bool `koanf:"skip_merge_commits" toml:"skip_merge_commits"`
	SkipGitMetrics    bool `koanf:"skip_git_metrics" toml:"skip_git_metrics"`

	// ContextLines is the unified-diff context-line width passed to the
	// repository adapter's Diff operation.
	ContextLines int `koanf:"context_lines" toml:"context_lines"`
}

// DefaultConfig returns a Config with sensible defaults: the whole
// similarity catalog enabled, one hours parameterization, and a
// system-temp-rooted working directory.
func DefaultConfig() *Config {
	return &Config{
		Languages:    []string{"go", "java", "js", "ts", "py", "rb", "c", "cpp", "h", "hpp", "cs"},
		Measurements: measurementNames(models.Catalog()),
		Hours: []HoursConfig{
			{MaxDiff: 120, FirstCommitAdd: 120},
		},
		CloneDetector: CloneDetectorConfig{
			BinaryPath: "",
			Args:       nil,
		},
		TempDir:           filepath.Join(os.TempDir(), "git-density"),
		ExecutionPolicy:   MaxParallel,
		SkipInitialCommit: false,
		SkipMergeCommits:  false,
		SkipGitMetrics:    false,
		ContextLines:      3,
	}
}

func measurementNames(types []models.MeasurementType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}
	return out
}

// EnabledMeasurements resolves the configured Measurements names into
// MeasurementType values, always prepending the implicit None sentinel.
func (c *Config) EnabledMeasurements() ([]models.MeasurementType, error) {
	out := []models.MeasurementType{models.NoneType}
	byName := make(map[string]models.MeasurementType, len(models.Catalog()))
	for _, t := range models.Catalog() {
		byName[t.String()] = t
	}
	for _, name := range c.Measurements {
		t, ok := byName[name]
		if !ok {
			return nil, models.NewError(models.ConfigInvalid, "EnabledMeasurements", fmt.Errorf("unknown measurement %q", name))
		}
		out = append(out, t)
	}
	return out, nil
}

// Load reads a config file, selecting a koanf parser by file extension
// (.toml, .yaml/.yml, .json; TOML is the fallback).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, models.NewError(models.ConfigInvalid, "Load", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, models.NewError(models.ConfigInvalid, "Load", err)
	}
	return cfg, nil
}

// FindConfigFile searches standard locations for a config file, returning
// its path or "" if none is found.
func FindConfigFile() string {
	names := []string{"git-density.toml", "git-density.yaml", "git-density.yml", "git-density.json"}
	dirs := []string{".", ".git-density"}
	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath pins an explicit config file path.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// LoadResult carries the loaded configuration plus the file it came from
// (empty when defaults were used).
type LoadResult struct {
	Config *Config
	Source string
}

// LoadConfig loads and validates configuration, falling back to
// DefaultConfig when no file is found or specified.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var cfg *Config
	var source string
	var err error

	if o.path != "" {
		if _, statErr := os.Stat(o.path); os.IsNotExist(statErr) {
			return nil, models.NewError(models.ConfigInvalid, "LoadConfig", fmt.Errorf("config file not found: %s", o.path))
		}
		cfg, err = Load(o.path)
		if err != nil {
			return nil, err
		}
		source = o.path
	} else {
		source = FindConfigFile()
		if source == "" {
			cfg = DefaultConfig()
		} else {
			cfg, err = Load(source)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, models.NewError(models.ConfigInvalid, "LoadConfig", err)
	}
	return &LoadResult{Config: cfg, Source: source}, nil
}

// LoadOrDefault loads configuration from standard locations, returning
// DefaultConfig when none is found. A malformed discovered file is still
// an error.
func LoadOrDefault() (*Config, error) {
	result, err := LoadConfig()
	if err != nil {
		if FindConfigFile() == "" {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return result.Config, nil
}

// Validate checks that all config values are well formed, in particular
// the hours-configuration no-duplicates invariant from §6.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("languages must not be empty"))
	}
	if _, err := c.EnabledMeasurements(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[HoursConfig]struct{})
	for _, h := range c.Hours {
		if h.MaxDiff <= 0 {
			errs = append(errs, fmt.Errorf("hours.max_diff must be positive, got %d", h.MaxDiff))
		}
		if h.FirstCommitAdd <= 0 {
			errs = append(errs, fmt.Errorf("hours.first_commit_add must be positive, got %d", h.FirstCommitAdd))
		}
		if _, dup := seen[h]; dup {
			errs = append(errs, fmt.Errorf("duplicate hours configuration {max_diff=%d, first_commit_add=%d}", h.MaxDiff, h.FirstCommitAdd))
		}
		seen[h] = struct{}{}
	}
	if len(c.Hours) == 0 {
		errs = append(errs, errors.New("hours must contain at least one configuration"))
	}

	if c.ContextLines < 0 {
		errs = append(errs, errors.New("context_lines must be non-negative"))
	}
	if c.TempDir == "" {
		errs = append(errs, errors.New("temp_dir must not be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
