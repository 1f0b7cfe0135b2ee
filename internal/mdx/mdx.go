// Package mdx inspects MDX documents: JSX components, ESM imports and
// exports, inline expressions and interactive features.
package mdx

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
	"git.home.luguber.info/inful/docenrich/internal/markdown"
	"git.home.luguber.info/inful/docenrich/internal/util/sets"
)

// TagMDX is attached to every analyzed MDX document.
const TagMDX = "mdx"

// TagInteractive is attached when any interactive feature is present.
const TagInteractive = "interactive"

// Interactive features.
const (
	FeatureEventHandlers    = "event-handlers"
	FeatureStateHooks       = "state-hooks"
	FeatureEffectHooks      = "effect-hooks"
	FeatureForms            = "forms"
	FeatureDynamicImports   = "dynamic-imports"
	FeatureClientDirectives = "client-directives"
)

// ComponentTag maps component names to a tag.
type ComponentTag struct {
	Components []string `yaml:"components"`
	Tag        string   `yaml:"tag"`
}

// Weights scale MDX signals into a complexity score.
type Weights struct {
	Component  float64 `yaml:"component"`
	Import     float64 `yaml:"import"`
	Export     float64 `yaml:"export"`
	Expression float64 `yaml:"expression"`
	Nested     float64 `yaml:"nested"`
}

// Options configures an Analyzer.
type Options struct {
	ComponentTags []ComponentTag
	Weights       Weights
	Thresholds    analyzer.Thresholds
}

// DefaultOptions returns the stock component table, weights and thresholds.
func DefaultOptions() Options {
	return Options{
		ComponentTags: []ComponentTag{
			{Components: []string{"Tabs", "Tab"}, Tag: "tabs"},
			{Components: []string{"Callout", "Alert", "Note", "Warning", "Admonition"}, Tag: "callouts"},
			{Components: []string{"CodeBlock", "CodeGroup", "Playground", "Sandbox"}, Tag: "interactive-code"},
			{Components: []string{"Chart", "Graph"}, Tag: "charts"},
			{Components: []string{"Video", "YouTube"}, Tag: "video"},
			{Components: []string{"Accordion", "Collapse", "Details"}, Tag: "accordion"},
			{Components: []string{"Steps", "Step"}, Tag: "steps"},
			{Components: []string{"Card", "CardGroup"}, Tag: "cards"},
			{Components: []string{"Mermaid", "Diagram"}, Tag: "diagrams"},
		},
		Weights:    Weights{Component: 2, Import: 1, Export: 1, Expression: 0.5, Nested: 5},
		Thresholds: analyzer.Thresholds{Medium: 10, High: 30},
	}
}

// Info is the result of analyzing one MDX document.
type Info struct {
	Components     []string
	ComponentCount int
	// Imports holds the module source of every import statement, so a source
	// imported twice appears twice.
	Imports        []string
	ImportSources  []string
	Exports        []string
	Expressions    int
	Nested         bool
	Score          float64
	Complexity     analyzer.Level
	Tags           []string
	Interactive    bool
	Features       []string
	HasFrontmatter bool
	HasImports     bool
}

// Summary returns the subset of Info stored under the "mdx" metadata key.
func (i Info) Summary() map[string]any {
	components := make([]any, len(i.Components))
	for n, c := range i.Components {
		components[n] = c
	}
	features := make([]any, len(i.Features))
	for n, f := range i.Features {
		features[n] = f
	}
	return map[string]any{
		"components":      components,
		"component_count": i.ComponentCount,
		"complexity":      string(i.Complexity),
		"interactive":     i.Interactive,
		"features":        features,
	}
}

// Analyzer applies a fixed component table. It is safe for concurrent use.
type Analyzer struct {
	componentTags map[string]string
	weights       Weights
	th            analyzer.Thresholds
}

// NewAnalyzer creates an Analyzer. The component table is copied.
func NewAnalyzer(opts Options) *Analyzer {
	d := DefaultOptions()
	if opts.ComponentTags == nil {
		opts.ComponentTags = d.ComponentTags
	}
	if opts.Weights == (Weights{}) {
		opts.Weights = d.Weights
	}
	if opts.Thresholds == (analyzer.Thresholds{}) {
		opts.Thresholds = d.Thresholds
	}

	tags := make(map[string]string)
	for _, ct := range opts.ComponentTags {
		for _, name := range ct.Components {
			if _, ok := tags[name]; !ok && ct.Tag != "" {
				tags[name] = ct.Tag
			}
		}
	}
	return &Analyzer{componentTags: tags, weights: opts.Weights, th: opts.Thresholds}
}

var (
	importLine   = regexp.MustCompile(`^import(?:\s*|[\s{*][\s\S]*?[\s}]from\s*)['"]([^'"]+)['"]`)
	importStart  = regexp.MustCompile(`^import(?:\s+type)?(?:\s*[{*]|\s+[A-Za-z_$][\w$]*\s*(?:,|from\b|$))`)
	exportLine   = regexp.MustCompile(`^export\s+(?:default\b|(?:async\s+)?(?:const|let|var|function\*?|class)\s+([A-Za-z_$][\w$]*))`)
	jsxTag       = regexp.MustCompile(`<(/?)([A-Z][A-Za-z0-9]*(?:\.[A-Za-z][A-Za-z0-9]*)*)((?:[^>"'{}]|"[^"]*"|'[^']*'|\{[^{}]*\})*?)(/?)>`)
	expression   = regexp.MustCompile(`\{[^{}]*\}`)
	inlineCode   = regexp.MustCompile("`[^`]*`")
	featureRules = []struct {
		name string
		re   *regexp.Regexp
	}{
		{FeatureEventHandlers, regexp.MustCompile(`\bon[A-Z][A-Za-z]*=\{`)},
		{FeatureStateHooks, regexp.MustCompile(`\buse(?:State|Reducer)\(`)},
		{FeatureEffectHooks, regexp.MustCompile(`\buse(?:Layout)?Effect\(`)},
		{FeatureForms, regexp.MustCompile(`<(?:form|input|select|textarea|Form|Input|Select)\b`)},
		{FeatureDynamicImports, regexp.MustCompile(`\bimport\(`)},
		{FeatureClientDirectives, regexp.MustCompile(`\bclient:(?:load|idle|visible|media|only)\b|['"]use client['"]`)},
	}
)

const maxImportLines = 64

// Analyze inspects content outside fenced code blocks.
func (a *Analyzer) Analyze(content string) Info {
	info := Info{HasFrontmatter: frontmatter.Has([]byte(content))}
	body, _ := docmodel.SplitBody(content)

	var (
		components sets.Ordered[string]
		imports    []string
		sources    sets.Ordered[string]
		exports    sets.Ordered[string]
		prose      strings.Builder
		depth      int
		pending    []string
	)
	addImport := func(source string) {
		imports = append(imports, source)
		sources.Add(source)
	}
	for _, l := range markdown.ScanLines(body) {
		if l.Fence || l.InFence {
			continue
		}
		line := strings.TrimSpace(l.Text)

		// Multi-line import: collect until the source string shows up.
		if pending != nil {
			pending = append(pending, line)
			stmt := strings.Join(pending, "\n")
			switch m := importLine.FindStringSubmatch(stmt); {
			case m != nil:
				addImport(m[1])
				prose.WriteString(stmt + "\n")
				pending = nil
			case line == "" || strings.HasSuffix(line, ";") || len(pending) > maxImportLines:
				prose.WriteString(stmt + "\n")
				pending = nil
			}
			continue
		}
		if m := importLine.FindStringSubmatch(line); m != nil {
			addImport(m[1])
			prose.WriteString(line + "\n")
			continue
		}
		if importStart.MatchString(line) {
			pending = []string{line}
			continue
		}
		if m := exportLine.FindStringSubmatch(line); m != nil {
			name := m[1]
			if name == "" {
				name = "default"
			}
			exports.Add(name)
			prose.WriteString(line + "\n")
			continue
		}

		text := inlineCode.ReplaceAllString(l.Text, "")
		prose.WriteString(text + "\n")
		for _, m := range jsxTag.FindAllStringSubmatch(text, -1) {
			closing, name, selfClosing := m[1] == "/", m[2], m[4] == "/"
			switch {
			case closing:
				depth = max(depth-1, 0)
			default:
				components.Add(name)
				if depth > 0 {
					info.Nested = true
				}
				if !selfClosing {
					depth++
				}
			}
		}
		info.Expressions += len(expression.FindAllString(jsxTag.ReplaceAllString(text, ""), -1))
	}

	if pending != nil {
		prose.WriteString(strings.Join(pending, "\n") + "\n")
	}

	info.Components = components.Items()
	info.ComponentCount = components.Len()
	info.Imports = imports
	info.ImportSources = sources.Items()
	info.Exports = exports.Items()
	info.HasImports = len(imports) > 0

	all := prose.String()
	for _, rule := range featureRules {
		if rule.re.MatchString(all) {
			info.Features = append(info.Features, rule.name)
		}
	}
	info.Interactive = len(info.Features) > 0

	w := a.weights
	info.Score = float64(info.ComponentCount)*w.Component +
		float64(len(info.Imports))*w.Import +
		float64(len(info.Exports))*w.Export +
		float64(info.Expressions)*w.Expression
	if info.Nested {
		info.Score += w.Nested
	}
	info.Complexity = analyzer.Classify(info.Score, a.th)
	info.Tags = a.tags(info)
	return info
}

func (a *Analyzer) tags(info Info) []string {
	var tags sets.Ordered[string]
	tags.Add(TagMDX)
	for _, c := range info.Components {
		base, _, _ := strings.Cut(c, ".")
		if tag, ok := a.componentTags[base]; ok {
			tags.Add(tag)
		}
	}
	if info.Interactive {
		tags.Add(TagInteractive)
	}
	return tags.Items()
}
