package config

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
)

// Validate checks value ranges and patterns. Defaults must already be applied.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validatePipeline,
		c.validateAnalyzer,
		c.validateTOC,
		c.validateMetrics,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Concurrency > 256 {
		return invalid("pipeline.concurrency", c.Pipeline.Concurrency, "must be at most 256")
	}
	for _, pattern := range append(append([]string(nil), c.Pipeline.Include...), c.Pipeline.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return invalid("pipeline.include", pattern, "is not a valid glob pattern")
		}
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	a := c.Analyzer
	if a.MinDescriptionLength >= a.DescriptionMaxLength {
		return invalid("analyzer.min_description_length", a.MinDescriptionLength,
			fmt.Sprintf("must be below description_max_length (%d)", a.DescriptionMaxLength))
	}
	if a.ComplexityMedium >= a.ComplexityHigh {
		return invalid("analyzer.complexity_medium", a.ComplexityMedium, "must be below complexity_high")
	}
	if c.MDX.ComplexityMedium >= c.MDX.ComplexityHigh {
		return invalid("mdx.complexity_medium", c.MDX.ComplexityMedium, "must be below complexity_high")
	}
	return nil
}

func (c *Config) validateTOC() error {
	if c.TOC.MaxDepth > 6 {
		return invalid("toc.max_depth", c.TOC.MaxDepth, "must be between 1 and 6")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && c.Metrics.Path[0] != '/' {
		return invalid("metrics.path", c.Metrics.Path, "must start with /")
	}
	return nil
}

func invalid(field string, value any, reason string) error {
	return errors.ConfigError(fmt.Sprintf("%s %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
