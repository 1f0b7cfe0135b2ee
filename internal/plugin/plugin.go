// Package plugin defines the document enhancement plugin model: plugin
// identity, the Enhancer and Validator capabilities, quality reports and the
// registry the pipeline executes from.
package plugin

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
)

// Plugin is anything registered with the pipeline. A plugin provides at least
// one capability by also implementing Enhancer or Validator.
type Plugin interface {
	// Info returns the plugin's identity and execution priority.
	Info() Info
}

// Enhancer augments document metadata.
//
// Enhance receives its own copy of the metadata and returns the augmented
// version. Implementations must not retain meta after returning.
type Enhancer interface {
	Plugin
	Enhance(ctx context.Context, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*docmodel.Metadata, error)
}

// Validator produces a quality report for a fully enhanced document.
type Validator interface {
	Plugin
	Validate(ctx context.Context, content string, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (QualityReport, error)
}

// Info describes a plugin. Name and Version together identify it.
type Info struct {
	Name    string
	Version string
	// Priority orders enhancers: higher runs first.
	Priority    int
	Description string
}

// String returns "name@version".
func (i Info) String() string {
	return fmt.Sprintf("%s@%s", i.Name, i.Version)
}

// Validate checks that the plugin identity is complete.
func (i Info) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if i.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// Capability names a plugin interface.
type Capability string

const (
	CapabilityEnhance  Capability = "enhance"
	CapabilityValidate Capability = "validate"
)

// Capabilities returns the capabilities p implements.
func Capabilities(p Plugin) []Capability {
	var caps []Capability
	if _, ok := p.(Enhancer); ok {
		caps = append(caps, CapabilityEnhance)
	}
	if _, ok := p.(Validator); ok {
		caps = append(caps, CapabilityValidate)
	}
	return caps
}
