// Package config loads the YAML configuration file that drives batch runs,
// watch mode and the built-in plugins.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/mdx"
	"git.home.luguber.info/inful/docenrich/internal/toc"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "docenrich.yaml"

// Config is the complete configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	TOC      TOCConfig      `yaml:"toc"`
	MDX      MDXConfig      `yaml:"mdx"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Reports  ReportsConfig  `yaml:"reports"`
	Logging  LoggingConfig  `yaml:"logging"`
	Watch    WatchConfig    `yaml:"watch"`
	// Plugins is handed to every document's ProcessingContext.
	Plugins map[string]any `yaml:"plugins,omitempty"`
}

// PipelineConfig controls batch execution and the optional stages.
type PipelineConfig struct {
	Concurrency     int      `yaml:"concurrency"`
	DocumentTimeout Duration `yaml:"document_timeout"`
	Repair          *bool    `yaml:"repair,omitempty"`
	TOC             *bool    `yaml:"toc,omitempty"`
	// Include lists glob patterns, matched against file names, that select
	// documents when a directory is given.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// RepairEnabled reports whether frontmatter repair runs.
func (p PipelineConfig) RepairEnabled() bool { return p.Repair == nil || *p.Repair }

// TOCEnabled reports whether TOC insertion runs.
func (p PipelineConfig) TOCEnabled() bool { return p.TOC == nil || *p.TOC }

type AnalyzerConfig struct {
	DescriptionMaxLength int               `yaml:"description_max_length"`
	MinDescriptionLength int               `yaml:"min_description_length"`
	WordsPerMinute       int               `yaml:"words_per_minute"`
	MaxTags              int               `yaml:"max_tags"`
	ComplexityMedium     float64           `yaml:"complexity_medium"`
	ComplexityHigh       float64           `yaml:"complexity_high"`
	LanguageAliases      map[string]string `yaml:"language_aliases,omitempty"`
	RequiredFields       []string          `yaml:"required_fields"`
}

type TOCConfig struct {
	MinHeadings int    `yaml:"min_headings"`
	MaxDepth    int    `yaml:"max_depth"`
	Title       string `yaml:"title"`
	// MinEntries is the entry count from which a missing TOC is reported.
	MinEntries int `yaml:"min_entries"`
}

type MDXConfig struct {
	ComplexityMedium float64             `yaml:"complexity_medium"`
	ComplexityHigh   float64             `yaml:"complexity_high"`
	ComponentTags    map[string][]string `yaml:"component_tags,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

type ReportsConfig struct {
	// Path of the sqlite database; empty disables the report ledger.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

// Duration is a time.Duration read from strings such as "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) { return time.Duration(d).String(), nil }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Load reads configPath after loading .env files, expands ${VAR}
// references, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 -- the path is chosen by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration, then applies defaults and validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AnalyzerOptions converts the analyzer section.
func (c *Config) AnalyzerOptions() analyzer.Options {
	opts := analyzer.DefaultOptions()
	opts.DescriptionMaxLength = c.Analyzer.DescriptionMaxLength
	opts.MinDescriptionLength = c.Analyzer.MinDescriptionLength
	opts.WordsPerMinute = c.Analyzer.WordsPerMinute
	opts.MaxTags = c.Analyzer.MaxTags
	opts.Thresholds = analyzer.Thresholds{Medium: c.Analyzer.ComplexityMedium, High: c.Analyzer.ComplexityHigh}
	for k, v := range c.Analyzer.LanguageAliases {
		if opts.LanguageAliases == nil {
			opts.LanguageAliases = map[string]string{}
		}
		opts.LanguageAliases[k] = v
	}
	return opts
}

// TOCOptions converts the toc section.
func (c *Config) TOCOptions() toc.Options {
	opts := toc.DefaultOptions()
	opts.MinHeadings = c.TOC.MinHeadings
	opts.MaxDepth = c.TOC.MaxDepth
	opts.Title = c.TOC.Title
	return opts
}

// MDXOptions converts the mdx section. Component tags from the file extend
// the built-in table.
func (c *Config) MDXOptions() mdx.Options {
	opts := mdx.DefaultOptions()
	for tag, components := range c.MDX.ComponentTags {
		opts.ComponentTags = append(opts.ComponentTags, mdx.ComponentTag{Components: components, Tag: tag})
	}
	opts.Thresholds = analyzer.Thresholds{Medium: c.MDX.ComplexityMedium, High: c.MDX.ComplexityHigh}
	return opts
}

// RepairOptions converts the analyzer section's repair settings.
func (c *Config) RepairOptions() fmrepair.Options {
	return fmrepair.Options{
		RequiredFields:       append([]string(nil), c.Analyzer.RequiredFields...),
		DescriptionMaxLength: c.Analyzer.DescriptionMaxLength,
	}
}
