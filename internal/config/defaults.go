package config

import (
	"time"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/mdx"
	"git.home.luguber.info/inful/docenrich/internal/toc"
)

// Defaults not owned by a component package.
const (
	DefaultConcurrency     = 4
	DefaultDocumentTimeout = 30 * time.Second
	DefaultMetricsListen   = ":9090"
	DefaultMetricsPath     = "/metrics"
	DefaultDebounce        = 500 * time.Millisecond
	DefaultTOCMinEntries   = 4
)

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	p := &cfg.Pipeline
	if p.Concurrency <= 0 {
		p.Concurrency = DefaultConcurrency
	}
	if p.DocumentTimeout <= 0 {
		p.DocumentTimeout = Duration(DefaultDocumentTimeout)
	}
	if len(p.Include) == 0 {
		p.Include = []string{"*.md", "*.markdown", "*.mdx"}
	}

	ad := analyzer.DefaultOptions()
	a := &cfg.Analyzer
	if a.DescriptionMaxLength <= 0 {
		a.DescriptionMaxLength = ad.DescriptionMaxLength
	}
	if a.MinDescriptionLength <= 0 {
		a.MinDescriptionLength = ad.MinDescriptionLength
	}
	if a.WordsPerMinute <= 0 {
		a.WordsPerMinute = ad.WordsPerMinute
	}
	if a.MaxTags <= 0 {
		a.MaxTags = ad.MaxTags
	}
	if a.ComplexityMedium <= 0 && a.ComplexityHigh <= 0 {
		a.ComplexityMedium = ad.Thresholds.Medium
		a.ComplexityHigh = ad.Thresholds.High
	}
	if len(a.RequiredFields) == 0 {
		a.RequiredFields = fmrepair.DefaultOptions().RequiredFields
	}

	td := toc.DefaultOptions()
	t := &cfg.TOC
	if t.MinHeadings <= 0 {
		t.MinHeadings = td.MinHeadings
	}
	if t.MaxDepth <= 0 {
		t.MaxDepth = td.MaxDepth
	}
	if t.Title == "" {
		t.Title = td.Title
	}
	if t.MinEntries <= 0 {
		t.MinEntries = DefaultTOCMinEntries
	}

	md := mdx.DefaultOptions()
	if cfg.MDX.ComplexityMedium <= 0 && cfg.MDX.ComplexityHigh <= 0 {
		cfg.MDX.ComplexityMedium = md.Thresholds.Medium
		cfg.MDX.ComplexityHigh = md.Thresholds.High
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = Duration(DefaultDebounce)
	}
}
