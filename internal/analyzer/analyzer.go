// Package analyzer derives document metadata from content heuristics.
//
// Analyze is a pure function of its inputs: it performs no I/O and never
// fails. Empty input yields metadata carrying only a filename-derived title.
package analyzer

import (
	"math"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/markdown"
	"git.home.luguber.info/inful/docenrich/internal/util/sets"
)

// Extra keys written by the analyzer.
const (
	KeyReadingTime = "reading_time"
	KeyWordCount   = "word_count"
	KeyComplexity  = "complexity"
	KeyContentType = "content_type"
)

// Structural tags.
const (
	TagCode      = "code"
	TagReference = "reference"
	TagInDepth   = "in-depth"
)

// ContentType is a coarse classification of the document.
type ContentType string

const (
	ContentNote      ContentType = "note"
	ContentTechnical ContentType = "technical"
	ContentReference ContentType = "reference"
	ContentArticle   ContentType = "article"
)

// Analysis holds the numeric heuristics behind the derived metadata.
type Analysis struct {
	WordCount       int
	ReadingTime     int
	Headings        int
	CodeBlocks      int
	Links           int
	MaxHeadingDepth int
	Languages       []string
	ComplexityScore float64
	Complexity      Level
	ContentType     ContentType
}

// Result is the output of Analyze.
type Result struct {
	Metadata *docmodel.Metadata
	Analysis Analysis
}

// Analyzer applies the content heuristics with a fixed configuration.
type Analyzer struct {
	opts Options
}

// New creates an analyzer. Zero-valued options fall back to defaults.
func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts.withDefaults()}
}

// Options returns the effective configuration.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Analyze derives metadata from content. path is only used for the title fallback.
func (a *Analyzer) Analyze(content, path string) Result {
	meta := docmodel.NewMetadata()
	if strings.TrimSpace(content) == "" {
		meta.Title = TitleFromFilename(path)
		return Result{Metadata: meta, Analysis: Analysis{Complexity: LevelLow, ContentType: ContentNote}}
	}

	body, _ := docmodel.SplitBody(content)
	structure := markdown.Inspect([]byte(body))
	analysis := a.measure(body, structure)

	if title, ok := structure.FirstHeading(1); ok {
		meta.Title = collapseSpace(title)
	} else {
		meta.Title = TitleFromFilename(path)
	}
	meta.Description = a.Description(body)
	meta.Tags.Add(a.tags(analysis)...)

	if analysis.WordCount > 0 {
		meta.SetExtra(KeyWordCount, analysis.WordCount)
		meta.SetExtra(KeyReadingTime, analysis.ReadingTime)
	}
	meta.SetExtra(KeyComplexity, string(analysis.Complexity))
	meta.SetExtra(KeyContentType, string(analysis.ContentType))

	return Result{Metadata: meta, Analysis: analysis}
}

// Title returns the derived title for content: its first level-1 heading or
// the human-cased filename.
func (a *Analyzer) Title(content, path string) string {
	body, _ := docmodel.SplitBody(content)
	if title, ok := markdown.Inspect([]byte(body)).FirstHeading(1); ok {
		return collapseSpace(title)
	}
	return TitleFromFilename(path)
}

func (a *Analyzer) measure(body string, s markdown.Structure) Analysis {
	words := countWords(markdown.StripFencedCode(body))

	var langs sets.Ordered[string]
	for _, cb := range s.CodeBlocks {
		if lang := a.normalizeLanguage(cb.Language); lang != "" {
			langs.Add(lang)
		}
	}

	an := Analysis{
		WordCount:       words,
		Headings:        len(s.Headings),
		CodeBlocks:      len(s.CodeBlocks),
		Links:           s.Links,
		MaxHeadingDepth: s.MaxHeadingDepth(),
		Languages:       langs.Items(),
	}
	if words > 0 {
		an.ReadingTime = int(math.Ceil(float64(words) / float64(a.opts.WordsPerMinute)))
	}

	w := a.opts.Weights
	an.ComplexityScore = float64(an.Headings)*w.Heading + float64(an.CodeBlocks)*w.CodeBlock + float64(an.Links)*w.Link
	an.Complexity = Classify(an.ComplexityScore, a.opts.Thresholds)
	an.ContentType = a.contentType(an)
	return an
}

func (a *Analyzer) contentType(an Analysis) ContentType {
	switch {
	case an.CodeBlocks >= 3:
		return ContentTechnical
	case an.WordCount < 100:
		return ContentNote
	case a.linkDensity(an) >= a.opts.LinkDensityThreshold:
		return ContentReference
	default:
		return ContentArticle
	}
}

func (a *Analyzer) linkDensity(an Analysis) float64 {
	if an.WordCount == 0 {
		return 0
	}
	return float64(an.Links) * 100 / float64(an.WordCount)
}

func (a *Analyzer) tags(an Analysis) []string {
	var tags sets.Ordered[string]
	add := func(tag string) {
		if tags.Len() < a.opts.MaxTags {
			tags.Add(tag)
		}
	}

	if an.CodeBlocks > 0 {
		add(TagCode)
	}
	for _, lang := range an.Languages {
		add(lang)
	}
	if an.Links > 0 && a.linkDensity(an) >= a.opts.LinkDensityThreshold {
		add(TagReference)
	}
	if an.MaxHeadingDepth >= a.opts.DeepHeadingLevel {
		add(TagInDepth)
	}
	return tags.Items()
}

func (a *Analyzer) normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.Trim(lang, "{}. "))
	if lang == "" {
		return ""
	}
	if alias, ok := a.opts.LanguageAliases[lang]; ok {
		return alias
	}
	return lang
}

func countWords(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		if strings.IndexFunc(field, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			n++
		}
	}
	return n
}
