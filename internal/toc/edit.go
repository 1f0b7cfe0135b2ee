package toc

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/markdown"
)

var listItem = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)

// HasExisting reports whether content already carries a TOC, either as a
// heading titled "Table of Contents" or as a nav/div element with a marker class.
func (b *Builder) HasExisting(content string) bool {
	body, _ := docmodel.SplitBody(content)
	lines := markdown.ScanLines(body)
	if _, _, ok := b.findHeadingBlock(lines); ok {
		return true
	}
	_, _, ok := b.findHTMLBlock(body, lines)
	return ok
}

// Insert adds a TOC after the first level-1 heading, or at the top of the
// body when there is none. Content that already has a TOC, or whose TOC
// would be empty, is returned unchanged.
func (b *Builder) Insert(content string) string {
	if b.HasExisting(content) {
		return content
	}
	items := b.Entries(content)
	if len(items) == 0 {
		return content
	}

	body, offset := docmodel.SplitBody(content)
	block := "## " + b.opts.Title + "\n\n" + RenderMarkdown(items)

	edit := markdown.Edit{Start: offset, End: offset, Replacement: block + "\n"}
	lines := markdown.ScanLines(body)
	for _, h := range scanHeadings(body) {
		if h.level != 1 {
			continue
		}
		prefix := "\n"
		if !strings.HasSuffix(body[h.line.Start:h.line.End], "\n") {
			prefix = "\n\n"
		}
		suffix := ""
		if next := lineAfter(lines, h.line); next != nil && !next.Blank() {
			suffix = "\n"
		}
		pos := offset + h.line.End
		edit = markdown.Edit{Start: pos, End: pos, Replacement: prefix + block + suffix}
		break
	}

	out, err := markdown.ApplyEdits(content, []markdown.Edit{edit})
	if err != nil {
		return content
	}
	return out
}

// Remove deletes the first TOC block together with one adjacent blank line.
// Content without a TOC is returned unchanged.
func (b *Builder) Remove(content string) string {
	body, offset := docmodel.SplitBody(content)
	lines := markdown.ScanLines(body)

	first, last, ok := b.findHeadingBlock(lines)
	if !ok {
		start, end, found := b.findHTMLBlock(body, lines)
		if !found {
			return content
		}
		var whole bool
		first, last, whole = wholeLines(body, lines, start, end)
		if !whole {
			return applyRemoval(content, offset+start, offset+end)
		}
	}

	start, end := lines[first].Start, lines[last].End
	switch {
	case first > 0 && lines[first-1].Blank():
		start = lines[first-1].Start
	case last+1 < len(lines) && lines[last+1].Blank():
		end = lines[last+1].End
	}
	return applyRemoval(content, offset+start, offset+end)
}

func applyRemoval(content string, start, end int) string {
	out, err := markdown.ApplyEdits(content, []markdown.Edit{{Start: start, End: end}})
	if err != nil {
		return content
	}
	return out
}

// findHeadingBlock locates a TOC heading and the list that follows it,
// returning the indexes of its first and last lines.
func (b *Builder) findHeadingBlock(lines []markdown.Line) (int, int, bool) {
	for i, l := range lines {
		if l.Fence || l.InFence {
			continue
		}
		m := atxHeading.FindStringSubmatch(l.Text)
		if m == nil || !b.isTOCHeading(headingText(m[2])) {
			continue
		}

		last := i
		for j := i + 1; j < len(lines); j++ {
			next := lines[j]
			if next.Fence || next.InFence {
				break
			}
			if next.Blank() {
				continue
			}
			if listItem.MatchString(next.Text) || (last > i && strings.HasPrefix(next.Text, "  ")) {
				last = j
				continue
			}
			break
		}
		return i, last, true
	}
	return 0, 0, false
}

// findHTMLBlock locates a nav or div element whose class list contains a
// marker class, outside fenced code and code spans. It returns body byte
// offsets.
func (b *Builder) findHTMLBlock(body string, lines []markdown.Line) (int, int, bool) {
	z := html.NewTokenizer(strings.NewReader(body))
	pos := 0
	var (
		tag   string
		start int
		depth int
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, 0, false
		}
		tokStart := pos
		pos += len(z.Raw())
		if (tt == html.StartTagToken || tt == html.EndTagToken) && inCode(lines, tokStart) {
			continue
		}

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			switch {
			case depth > 0 && string(name) == tag:
				depth++
			case depth == 0 && (string(name) == "nav" || string(name) == "div") && hasAttr &&
				b.hasMarkerClass(z):
				tag, start, depth = string(name), tokStart, 1
			}
		case html.EndTagToken:
			if depth == 0 {
				continue
			}
			if name, _ := z.TagName(); string(name) == tag {
				depth--
				if depth == 0 {
					return start, pos, true
				}
			}
		}
	}
}

func (b *Builder) hasMarkerClass(z *html.Tokenizer) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, class := range strings.Fields(string(val)) {
				for _, marker := range b.opts.MarkerClasses {
					if strings.EqualFold(class, marker) {
						return true
					}
				}
			}
		}
		if !more {
			return false
		}
	}
}

// inCode reports whether offset falls in fenced code or in a code span.
func inCode(lines []markdown.Line, offset int) bool {
	for _, l := range lines {
		if offset >= l.Start && offset < l.End {
			return l.Fence || l.InFence || inCodeSpan(l.Text, offset-l.Start)
		}
	}
	return false
}

// inCodeSpan reports whether pos lies between a backtick run and the next
// run of the same length on the line.
func inCodeSpan(text string, pos int) bool {
	i := 0
	for i < len(text) {
		if text[i] != '`' {
			i++
			continue
		}
		open := i
		for i < len(text) && text[i] == '`' {
			i++
		}
		n := i - open
		closing := -1
		for j := i; j < len(text); {
			if text[j] != '`' {
				j++
				continue
			}
			k := j
			for k < len(text) && text[k] == '`' {
				k++
			}
			if k-j == n {
				closing = j
				break
			}
			j = k
		}
		if closing < 0 {
			continue
		}
		if pos >= open && pos < closing+n {
			return true
		}
		i = closing + n
	}
	return false
}

// wholeLines maps a byte span onto line indexes and reports whether the span
// covers those lines entirely (ignoring surrounding whitespace).
func wholeLines(body string, lines []markdown.Line, start, end int) (int, int, bool) {
	first, last := -1, -1
	for i, l := range lines {
		if first < 0 && start >= l.Start && start < l.End {
			first = i
		}
		if end > l.Start && end <= l.End {
			last = i
		}
	}
	if first < 0 || last < 0 {
		return 0, 0, false
	}
	before := body[lines[first].Start:start]
	after := body[end:lines[last].End]
	whole := strings.TrimSpace(before) == "" && strings.TrimSpace(after) == ""
	return first, last, whole
}

func lineAfter(lines []markdown.Line, l markdown.Line) *markdown.Line {
	for i := range lines {
		if lines[i].Start == l.End {
			return &lines[i]
		}
	}
	return nil
}

// IsStale reports whether content has a Markdown TOC whose entries no longer
// match the document's headings. Indentation is ignored.
func (b *Builder) IsStale(content string) bool {
	body, _ := docmodel.SplitBody(content)
	lines := markdown.ScanLines(body)
	first, last, ok := b.findHeadingBlock(lines)
	if !ok {
		return false
	}

	var existing []string
	for _, l := range lines[first+1 : last+1] {
		if !l.Blank() {
			existing = append(existing, strings.TrimSpace(l.Text))
		}
	}
	var want []string
	for _, l := range strings.Split(RenderMarkdown(b.Entries(content)), "\n") {
		if s := strings.TrimSpace(l); s != "" {
			want = append(want, s)
		}
	}
	return !slices.Equal(existing, want)
}
