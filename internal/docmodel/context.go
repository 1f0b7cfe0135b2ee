package docmodel

import (
	"maps"
	"path/filepath"
	"strings"
)

// Extension identifies a document's source format by file extension.
type Extension string

const (
	ExtMarkdown     Extension = ".md"
	ExtMarkdownLong Extension = ".markdown"
	ExtMDX          Extension = ".mdx"
	ExtText         Extension = ".txt"
	ExtHTML         Extension = ".html"
	ExtHTM          Extension = ".htm"
	ExtRST          Extension = ".rst"
	ExtUnknown      Extension = ""
)

// DetectExtension maps a path to one of the known extensions.
func DetectExtension(path string) Extension {
	switch ext := Extension(strings.ToLower(filepath.Ext(path))); ext {
	case ExtMarkdown, ExtMarkdownLong, ExtMDX, ExtText, ExtHTML, ExtHTM, ExtRST:
		return ext
	default:
		return ExtUnknown
	}
}

// IsMarkdown reports whether documents with this extension carry Markdown headings.
func (e Extension) IsMarkdown() bool {
	return e == ExtMarkdown || e == ExtMarkdownLong || e == ExtMDX
}

// ProcessingContext is the read-only per-document record handed to plugins.
//
// It is created once per document before the pipeline runs.
type ProcessingContext struct {
	inputPath  string
	outputPath string
	filename   string
	ext        Extension
	config     map[string]any
	raw        string
	hasRaw     bool
	runID      string
}

// ContextOption configures a ProcessingContext at construction.
type ContextOption func(*ProcessingContext)

// WithConfig attaches a configuration map. The map is copied.
func WithConfig(cfg map[string]any) ContextOption {
	return func(pc *ProcessingContext) { pc.config = maps.Clone(cfg) }
}

// WithRawContent attaches content a collaborator has already read.
func WithRawContent(content string) ContextOption {
	return func(pc *ProcessingContext) {
		pc.raw = content
		pc.hasRaw = true
	}
}

// WithRunID tags the context with the batch run it belongs to.
func WithRunID(id string) ContextOption {
	return func(pc *ProcessingContext) { pc.runID = id }
}

// NewProcessingContext creates a context for a document read from inputPath
// and destined for outputPath.
func NewProcessingContext(inputPath, outputPath string, opts ...ContextOption) *ProcessingContext {
	pc := &ProcessingContext{
		inputPath:  inputPath,
		outputPath: outputPath,
		filename:   filepath.Base(inputPath),
		ext:        DetectExtension(inputPath),
	}
	if inputPath == "" {
		pc.filename = ""
	}
	for _, opt := range opts {
		opt(pc)
	}
	if pc.config == nil {
		pc.config = map[string]any{}
	}
	return pc
}

// Derive returns a copy of pc with opts applied. pc itself is not modified.
func (pc *ProcessingContext) Derive(opts ...ContextOption) *ProcessingContext {
	cp := *pc
	cp.config = maps.Clone(pc.config)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

func (pc *ProcessingContext) InputPath() string    { return pc.inputPath }
func (pc *ProcessingContext) OutputPath() string   { return pc.outputPath }
func (pc *ProcessingContext) Filename() string     { return pc.filename }
func (pc *ProcessingContext) Extension() Extension { return pc.ext }
func (pc *ProcessingContext) RunID() string        { return pc.runID }

// Config returns a copy of the configuration map.
func (pc *ProcessingContext) Config() map[string]any {
	return maps.Clone(pc.config)
}

// ConfigString returns a string configuration value, or "" when absent.
func (pc *ProcessingContext) ConfigString(key string) string {
	if v, ok := pc.config[key].(string); ok {
		return v
	}
	return ""
}

// ConfigBool returns a boolean configuration value, or false when absent.
func (pc *ProcessingContext) ConfigBool(key string) bool {
	if v, ok := pc.config[key].(bool); ok {
		return v
	}
	return false
}

// RawContent returns the side-channel content, if a collaborator supplied one.
func (pc *ProcessingContext) RawContent() (string, bool) {
	return pc.raw, pc.hasRaw
}
