// Package toc builds, renders, inserts and removes tables of contents for
// Markdown documents.
package toc

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/markdown"
)

// DefaultTitle is the heading the builder writes above an inserted TOC.
const DefaultTitle = "Table of Contents"

// Entry is a node of the heading tree.
type Entry struct {
	Level    int
	Title    string
	Anchor   string
	Children []Entry
}

// Options configures a Builder.
type Options struct {
	// MinHeadings is the number of headings below which no TOC is produced.
	MinHeadings int
	// MaxDepth drops headings deeper than this level.
	MaxDepth int
	Title    string
	// MarkerClasses identify HTML nav/div elements that already hold a TOC.
	MarkerClasses []string
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		MinHeadings:   2,
		MaxDepth:      3,
		Title:         DefaultTitle,
		MarkerClasses: []string{"toc", "table-of-contents"},
	}
}

// Builder generates and edits tables of contents. It holds no mutable state.
type Builder struct {
	opts Options
}

// New creates a Builder. Zero-valued options fall back to defaults.
func New(opts Options) *Builder {
	d := DefaultOptions()
	if opts.MinHeadings <= 0 {
		opts.MinHeadings = d.MinHeadings
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = d.MaxDepth
	}
	opts.MaxDepth = min(opts.MaxDepth, 6)
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = d.Title
	}
	if len(opts.MarkerClasses) == 0 {
		opts.MarkerClasses = d.MarkerClasses
	}
	return &Builder{opts: opts}
}

var (
	atxHeading    = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	inlineLink    = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	inlineMarkers = regexp.MustCompile("[`*]|~~")
	spaceRun      = regexp.MustCompile(`\s+`)
)

type heading struct {
	line  markdown.Line
	level int
	text  string
}

// scanHeadings returns the ATX headings of body outside fenced code.
func scanHeadings(body string) []heading {
	var out []heading
	for _, l := range markdown.ScanLines(body) {
		if l.Fence || l.InFence {
			continue
		}
		m := atxHeading.FindStringSubmatch(l.Text)
		if m == nil {
			continue
		}
		out = append(out, heading{line: l, level: len(m[1]), text: headingText(m[2])})
	}
	return out
}

func headingText(raw string) string {
	s := inlineLink.ReplaceAllString(raw, "$1")
	s = inlineMarkers.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func (b *Builder) isTOCHeading(text string) bool {
	return strings.EqualFold(text, DefaultTitle) || strings.EqualFold(text, b.opts.Title)
}

// Generate returns the heading tree of content. Documents with fewer than
// MinHeadings headings yield an empty list.
func (b *Builder) Generate(content string) []Entry {
	body, _ := docmodel.SplitBody(content)

	var hs []heading
	for _, h := range scanHeadings(body) {
		if h.text != "" && !b.isTOCHeading(h.text) {
			hs = append(hs, h)
		}
	}
	if len(hs) < b.opts.MinHeadings {
		return []Entry{}
	}

	type node struct {
		entry    Entry
		children []*node
	}
	var (
		roots []*node
		stack []*node
	)
	anchors := newAnchorSet()
	for _, h := range hs {
		if h.level > b.opts.MaxDepth {
			continue
		}
		n := &node{entry: Entry{Level: h.level, Title: h.text, Anchor: anchors.unique(Anchor(h.text))}}
		for len(stack) > 0 && stack[len(stack)-1].entry.Level >= h.level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
		}
		stack = append(stack, n)
	}

	var build func([]*node) []Entry
	build = func(ns []*node) []Entry {
		out := make([]Entry, 0, len(ns))
		for _, n := range ns {
			e := n.entry
			if len(n.children) > 0 {
				e.Children = build(n.children)
			}
			out = append(out, e)
		}
		return out
	}
	return build(roots)
}

// Anchor converts heading text into a fragment identifier: lower case,
// punctuation other than hyphens removed, whitespace runs
// replaced by a single hyphen.
func Anchor(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	s := strings.Join(strings.Fields(b.String()), "-")
	return strings.Trim(s, "-")
}

// anchorSet suffixes repeated anchors with -2, -3 and so on.
type anchorSet map[string]bool

func newAnchorSet() anchorSet { return anchorSet{} }

func (s anchorSet) unique(anchor string) string {
	if anchor == "" {
		anchor = "section"
	}
	candidate := anchor
	for n := 2; s[candidate]; n++ {
		candidate = anchor + "-" + strconv.Itoa(n)
	}
	s[candidate] = true
	return candidate
}
